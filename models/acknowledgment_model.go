package models

import (
	"time"

	"cautela-app/types"

	"gorm.io/gorm"
)

// Return acknowledgment status
const (
	AckPending      = "pending"
	AckAcknowledged = "acknowledged"
)

// ReturnAcknowledgment is created when a checkout is returned and is
// shown to whoever reconciles the return. Acknowledging it never
// touches stock; availability was already restored by the return.
type ReturnAcknowledgment struct {
	gorm.Model
	ID                  types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	MovementID          types.SnowflakeID `json:"movement_id" gorm:"index"`
	MaterialDescription string            `json:"material_description"`
	CustodyTargetName   string            `json:"custody_target_name"`
	Quantity            int               `json:"quantity"`
	Status              string            `json:"status" gorm:"default:pending"`
	AcknowledgedAt      *time.Time        `json:"acknowledged_at"`
}
