package models

import (
	"cautela-app/types"

	"gorm.io/gorm"
)

// Operability status of a material
const (
	OperabilityOperational   = "operational"
	OperabilityInMaintenance = "in_maintenance"
	OperabilityInoperative   = "inoperative"
)

// Material is the canonical per-material record. Quantity fields are
// mutated only by the stock and allocation services, never by handlers
// directly.
type Material struct {
	gorm.Model
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Description       string            `json:"description" gorm:"not null" validate:"required"`
	Category          string            `json:"category"`
	TotalQuantity     int               `json:"total_quantity" gorm:"default:0"`
	AvailableQuantity int               `json:"available_quantity" gorm:"default:0"`
	VehicleQuantity   int               `json:"vehicle_quantity" gorm:"default:0"`
	OperabilityStatus string            `json:"operability_status" gorm:"default:operational"`
	CreatedBy         int
	UpdatedBy         int
}
