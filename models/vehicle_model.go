package models

import (
	"cautela-app/types"

	"gorm.io/gorm"
)

type Vehicle struct {
	gorm.Model
	ID          types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Description string            `json:"description" gorm:"not null" validate:"required"`
	Plate       string            `json:"plate" gorm:"uniqueIndex"`
	CreatedBy   int
	UpdatedBy   int
}
