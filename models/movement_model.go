package models

import (
	"time"

	"cautela-app/types"

	"gorm.io/gorm"
)

// Movement types
const (
	MovementAcquisition = "acquisition"
	MovementCheckout    = "checkout"
	MovementDisposal    = "disposal"
	MovementRepair      = "repair"
)

// Movement status, set once at creation
const (
	StatusInStock   = "in_stock"
	StatusCustodied = "custodied"
	StatusDisposed  = "disposed"
	StatusInRepair  = "in_repair"
)

// CheckoutConfirmationPhrase must be entered exactly (case included) by
// the custody target when signing a checkout.
const CheckoutConfirmationPhrase = "Aceito"

// MovementRecord is one entry of the movement ledger. Immutable after
// creation except for Status, Signed and Returned.
type MovementRecord struct {
	gorm.Model
	ID                  types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Type                string            `json:"type" gorm:"not null;index"`
	MaterialID          types.SnowflakeID `json:"material_id" gorm:"index"`
	MaterialDescription string            `json:"material_description"`
	Quantity            int               `json:"quantity" gorm:"default:0"`
	Date                time.Time         `json:"date"`
	InitiatorID         int               `json:"initiator_id"`
	InitiatorName       string            `json:"initiator_name"`
	CustodyTargetID     types.SnowflakeID `json:"custody_target_id" gorm:"default:null"`
	CustodyTargetName   string            `json:"custody_target_name"`
	VehicleID           types.SnowflakeID `json:"vehicle_id" gorm:"default:null"`
	VehicleDescription  string            `json:"vehicle_description"`
	RepairLocation      string            `json:"repair_location"`
	RepairReference     string            `json:"repair_reference"`
	RepairReason        string            `json:"repair_reason"`
	Status              string            `json:"status"`
	Signed              bool              `json:"signed" gorm:"default:false"`
	Returned            bool              `json:"returned" gorm:"default:false"`
}
