package database

import (
	"fmt"
	"log"

	"cautela-app/controllers/idgen"
	"cautela-app/models"
	"cautela-app/types"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedAdminUser(db)
	SeedCategories(db)
	SeedPersons(db)
	SeedVehicles(db)
}

func SeedAdminUser(db *gorm.DB) {
	var existing models.User
	if err := db.Where("username = ?", "admin").First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	user := models.User{
		Username: "admin",
		Name:     "Administrator",
		Email:    "admin@localhost",
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
}

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Code: "ARM", Name: "ARMAMENT"},
		{Code: "COM", Name: "COMMUNICATION"},
		{Code: "EQP", Name: "EQUIPMENT"},
	}

	for _, c := range categories {
		var existing models.Category
		if err := db.Where("code = ?", c.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&c)
			}
		}
	}
}

func SeedPersons(db *gorm.DB) {
	persons := []models.Person{
		{Name: "Alves", Rank: "Pvt."},
		{Name: "Moreira", Rank: "Sgt."},
	}

	for _, p := range persons {
		var existing models.Person
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				p.ID = types.SnowflakeID(idgen.GenerateID())
				p.Registration = fmt.Sprintf("REG-%06d", rand.Intn(1000000))
				db.Create(&p)
			}
		}
	}
}

func SeedVehicles(db *gorm.DB) {
	vehicles := []models.Vehicle{
		{Description: "Truck 01"},
		{Description: "Patrol Car 02"},
	}

	for _, v := range vehicles {
		var existing models.Vehicle
		if err := db.Where("description = ?", v.Description).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				v.ID = types.SnowflakeID(idgen.GenerateID())
				v.Plate = fmt.Sprintf("QRA-%04d", rand.Intn(10000))
				db.Create(&v)
			}
		}
	}
}
