package models

import (
	"time"

	"cautela-app/types"

	"gorm.io/gorm"
)

// Allocation status
const (
	AllocationActive      = "allocated"
	AllocationDeallocated = "deallocated"
)

// AllocationRecord tracks units of a material loaded on a vehicle. At
// most one active record exists per (vehicle, material); a repeated
// allocate merges into it.
type AllocationRecord struct {
	gorm.Model
	ID            types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	VehicleID     types.SnowflakeID `json:"vehicle_id" gorm:"index"`
	MaterialID    types.SnowflakeID `json:"material_id" gorm:"index"`
	Quantity      int               `json:"quantity" gorm:"default:0"`
	Status        string            `json:"status"`
	AllocatedAt   time.Time         `json:"allocated_at"`
	DeallocatedAt *time.Time        `json:"deallocated_at"`
	Reason        string            `json:"reason"`
	CreatedBy     int
	UpdatedBy     int
}
