package services

import (
	"errors"
	"time"

	"cautela-app/controllers/idgen"
	"cautela-app/metrics"
	"cautela-app/models"
	"cautela-app/repositories"
	"cautela-app/types"

	"gorm.io/gorm"
)

// AllocationService is the vehicle allocation subledger. It routes
// through the same material quantity fields as the stock engine:
// allocate moves units from available to vehicle-held, deallocate moves
// them back.
type AllocationService struct {
	DB    *gorm.DB
	locks *materialLocks
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{DB: db, locks: sharedLocks}
}

// Allocate puts qty units of a material aboard a vehicle. If an active
// record already exists for the (vehicle, material) pair, the quantity
// merges into it; no duplicate active records.
func (s *AllocationService) Allocate(actor Actor, vehicleID, materialID types.SnowflakeID, qty int) (*models.AllocationRecord, error) {
	if vehicleID == 0 {
		return nil, reject("validation", &ValidationError{Field: "vehicle_id", Reason: "required"})
	}
	if materialID == 0 {
		return nil, reject("validation", &ValidationError{Field: "material_id", Reason: "required"})
	}
	if qty <= 0 {
		return nil, reject("validation", &ValidationError{Field: "quantity", Reason: "must be greater than zero"})
	}

	defer s.locks.lock(materialID)()

	var rec *models.AllocationRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		materials := repositories.NewMaterialRepository(tx)
		material, err := loadMaterial(tx, materialID)
		if err != nil {
			return err
		}

		var vehicle models.Vehicle
		if err := tx.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVehicleNotFound
			}
			return &PersistenceError{Op: "load vehicle", Err: err}
		}

		ok, err := materials.ReserveAvailable(material.ID, qty)
		if err != nil {
			return &PersistenceError{Op: "reserve stock", Err: err}
		}
		if !ok {
			return reject("insufficient_stock",
				insufficientStock(tx, material.ID, qty, material.AvailableQuantity))
		}
		if err := materials.AddVehicleQuantity(material.ID, qty); err != nil {
			return &PersistenceError{Op: "update vehicle quantity", Err: err}
		}

		allocations := repositories.NewAllocationRepository(tx)
		active, err := allocations.FindActive(vehicle.ID, material.ID)
		if err == nil {
			merged, err := allocations.AddQuantity(active.ID, qty)
			if err != nil {
				return &PersistenceError{Op: "merge allocation", Err: err}
			}
			if merged {
				active.Quantity += qty
				rec = active
				return nil
			}
			// Active record vanished between find and merge; fall
			// through and create a fresh one.
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return &PersistenceError{Op: "find active allocation", Err: err}
		}

		rec = &models.AllocationRecord{
			ID:          types.SnowflakeID(idgen.GenerateID()),
			VehicleID:   vehicle.ID,
			MaterialID:  material.ID,
			Quantity:    qty,
			Status:      models.AllocationActive,
			AllocatedAt: time.Now(),
			CreatedBy:   actor.ID,
		}
		if err := allocations.Create(rec); err != nil {
			return &PersistenceError{Op: "create allocation", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AllocationsTotal.WithLabelValues("allocate").Inc()
	return rec, nil
}

// Deallocate closes an active allocation in full. Partial deallocation
// is unsupported: deallocate fully, then re-allocate the remainder.
func (s *AllocationService) Deallocate(actor Actor, allocationID types.SnowflakeID, reason string) error {
	alloc, err := repositories.NewAllocationRepository(s.DB).GetByID(allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		return &PersistenceError{Op: "load allocation", Err: err}
	}
	if alloc.Status != models.AllocationActive {
		return ErrAllocationNotActive
	}

	defer s.locks.lock(alloc.MaterialID)()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := repositories.NewAllocationRepository(tx).MarkDeallocated(alloc.ID, reason)
		if err != nil {
			return &PersistenceError{Op: "mark deallocated", Err: err}
		}
		if !ok {
			return ErrAllocationNotActive
		}

		materials := repositories.NewMaterialRepository(tx)
		if err := materials.ReleaseAvailable(alloc.MaterialID, alloc.Quantity); err != nil {
			return &PersistenceError{Op: "restore available", Err: err}
		}
		if err := materials.AddVehicleQuantity(alloc.MaterialID, -alloc.Quantity); err != nil {
			return &PersistenceError{Op: "update vehicle quantity", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.AllocationsTotal.WithLabelValues("deallocate").Inc()
	return nil
}

// ActiveAllocations is the authoritative "what is loaded on this
// vehicle" view.
func (s *AllocationService) ActiveAllocations(vehicleID types.SnowflakeID) ([]models.AllocationRecord, error) {
	records, err := repositories.NewAllocationRepository(s.DB).ActiveByVehicle(vehicleID)
	if err != nil {
		return nil, &PersistenceError{Op: "list allocations", Err: err}
	}
	return records, nil
}

// HasActiveAllocations backs the refusal to delete a vehicle that still
// carries material.
func (s *AllocationService) HasActiveAllocations(vehicleID types.SnowflakeID) (bool, error) {
	count, err := repositories.NewAllocationRepository(s.DB).CountActiveByVehicle(vehicleID)
	if err != nil {
		return false, &PersistenceError{Op: "count allocations", Err: err}
	}
	return count > 0, nil
}
