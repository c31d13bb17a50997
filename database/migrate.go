package database

import (
	"cautela-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginLog{},
		&models.Category{},
		&models.Person{},
		&models.Vehicle{},
		&models.Material{},
		&models.MovementRecord{},
		&models.AllocationRecord{},
		&models.ReturnAcknowledgment{},
	)
}
