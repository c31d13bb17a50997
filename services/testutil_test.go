package services

import (
	"path/filepath"
	"testing"

	"cautela-app/controllers/idgen"
	"cautela-app/database"
	"cautela-app/models"
	"cautela-app/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testActor = Actor{ID: 1, Name: "Sgt. Moreira"}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cautela_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedMaterial(t *testing.T, db *gorm.DB, description string, total, available int) *models.Material {
	t.Helper()

	material := &models.Material{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		Description:       description,
		Category:          "EQUIPMENT",
		TotalQuantity:     total,
		AvailableQuantity: available,
		OperabilityStatus: models.OperabilityOperational,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func seedPerson(t *testing.T, db *gorm.DB, rank, name string) *models.Person {
	t.Helper()

	person := &models.Person{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		Name:         name,
		Rank:         rank,
		Registration: "REG-" + name,
	}
	require.NoError(t, db.Create(person).Error)
	return person
}

func seedVehicle(t *testing.T, db *gorm.DB, description string) *models.Vehicle {
	t.Helper()

	vehicle := &models.Vehicle{
		ID:          types.SnowflakeID(idgen.GenerateID()),
		Description: description,
		Plate:       "PLT-" + description,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

func reloadMaterial(t *testing.T, db *gorm.DB, id types.SnowflakeID) *models.Material {
	t.Helper()

	var material models.Material
	require.NoError(t, db.First(&material, "id = ?", id).Error)
	return &material
}
