package models

import (
	"cautela-app/types"

	"gorm.io/gorm"
)

// Person is a custody target from the personnel directory.
type Person struct {
	gorm.Model
	ID           types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Name         string            `json:"name" gorm:"not null" validate:"required"`
	Rank         string            `json:"rank"`
	Registration string            `json:"registration" gorm:"uniqueIndex"`
	Email        string            `json:"email"`
	CreatedBy    int
	UpdatedBy    int
}

// DisplayName is how the person appears on ledger entries.
func (p *Person) DisplayName() string {
	if p.Rank == "" {
		return p.Name
	}
	return p.Rank + " " + p.Name
}
