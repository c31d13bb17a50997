package services

import (
	"errors"
	"fmt"

	"cautela-app/types"
)

var (
	ErrPermissionDenied       = errors.New("permission denied")
	ErrMaterialNotFound       = errors.New("material not found")
	ErrMovementNotFound       = errors.New("movement not found")
	ErrPersonNotFound         = errors.New("person not found")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrAllocationNotFound     = errors.New("allocation not found")
	ErrAcknowledgmentNotFound = errors.New("acknowledgment not found")
	ErrNotCheckout            = errors.New("movement is not a checkout")
	ErrNotRepair              = errors.New("movement is not a repair hold")
	ErrAlreadyReturned        = errors.New("movement already returned")
	ErrAlreadySigned          = errors.New("movement already signed")
	ErrAlreadyAcknowledged    = errors.New("return already acknowledged")
	ErrAllocationNotActive    = errors.New("allocation is not active")
)

// ValidationError reports a missing or invalid required field, detected
// before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientStockError reports a requested quantity exceeding the
// material's available quantity at validation time.
type InsufficientStockError struct {
	MaterialID types.SnowflakeID
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %d: requested %d, available %d",
		e.MaterialID, e.Requested, e.Available)
}

// DuplicateItemError reports the same material listed twice within one
// batch checkout.
type DuplicateItemError struct {
	MaterialID types.SnowflakeID
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("material %d appears more than once in the batch", e.MaterialID)
}

// PersistenceError wraps an underlying write failure. The operation may
// have partially completed; no automatic reconciliation is attempted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
