package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Code string `json:"code" gorm:"uniqueIndex;not null"`
	Name string `json:"name" gorm:"not null"`
}
