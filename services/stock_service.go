package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"cautela-app/controllers/idgen"
	"cautela-app/metrics"
	"cautela-app/models"
	"cautela-app/repositories"
	"cautela-app/types"

	"gorm.io/gorm"
)

// Actor is the already-authorized user performing an operation. The
// engine stamps it on every ledger entry; authorization itself is the
// caller's responsibility.
type Actor struct {
	ID   int
	Name string
}

// CheckoutItem is one (material, quantity) pair issued to a custody
// target, optionally bound to a vehicle.
type CheckoutItem struct {
	MaterialID      types.SnowflakeID `json:"material_id"`
	Quantity        int               `json:"quantity"`
	CustodyTargetID types.SnowflakeID `json:"custody_target_id"`
	VehicleID       types.SnowflakeID `json:"vehicle_id"`
}

// materialLocks hands out one mutex per material id so that operations
// on the same material never interleave between the sufficiency check
// and the commit. Two simultaneous checkouts would otherwise both read
// the same available_quantity and both pass.
type materialLocks struct {
	mu    sync.Mutex
	locks map[types.SnowflakeID]*sync.Mutex
}

func newMaterialLocks() *materialLocks {
	return &materialLocks{locks: make(map[types.SnowflakeID]*sync.Mutex)}
}

// sharedLocks is process-wide: every stock and allocation service
// instance serializes on the same per-material mutex, no matter where
// or how often the instance was constructed.
var sharedLocks = newMaterialLocks()

func (l *materialLocks) lock(id types.SnowflakeID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// StockService is the stock reconciliation engine: it validates every
// stock-affecting operation against current quantities and persists the
// material update together with the ledger entry in one transaction.
type StockService struct {
	DB    *gorm.DB
	locks *materialLocks
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{DB: db, locks: sharedLocks}
}

func reject(reason string, err error) error {
	metrics.RejectedOperationsTotal.WithLabelValues(reason).Inc()
	return err
}

// insufficientStock re-reads available_quantity so the error carries
// the value the conditional update actually saw, not an earlier read
// that another writer may have invalidated.
func insufficientStock(tx *gorm.DB, id types.SnowflakeID, requested, fallback int) error {
	available := fallback
	if material, err := repositories.NewMaterialRepository(tx).GetByID(id); err == nil {
		available = material.AvailableQuantity
	}
	return &InsufficientStockError{MaterialID: id, Requested: requested, Available: available}
}

func loadMaterial(tx *gorm.DB, id types.SnowflakeID) (*models.Material, error) {
	material, err := repositories.NewMaterialRepository(tx).GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, &PersistenceError{Op: "load material", Err: err}
	}
	return material, nil
}

// RecordAcquisition adds newly acquired units: total and available both
// grow by qty. No upper bound.
func (s *StockService) RecordAcquisition(actor Actor, materialID types.SnowflakeID, qty int) (*models.MovementRecord, error) {
	if materialID == 0 {
		return nil, reject("validation", &ValidationError{Field: "material_id", Reason: "required"})
	}
	if qty <= 0 {
		return nil, reject("validation", &ValidationError{Field: "quantity", Reason: "must be greater than zero"})
	}

	defer s.locks.lock(materialID)()

	var rec *models.MovementRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		materials := repositories.NewMaterialRepository(tx)
		material, err := loadMaterial(tx, materialID)
		if err != nil {
			return err
		}

		if err := materials.AddTotal(material.ID, qty); err != nil {
			return &PersistenceError{Op: "update total", Err: err}
		}
		if err := materials.ReleaseAvailable(material.ID, qty); err != nil {
			return &PersistenceError{Op: "update available", Err: err}
		}

		rec = &models.MovementRecord{
			ID:                  types.SnowflakeID(idgen.GenerateID()),
			Type:                models.MovementAcquisition,
			MaterialID:          material.ID,
			MaterialDescription: material.Description,
			Quantity:            qty,
			Date:                time.Now(),
			InitiatorID:         actor.ID,
			InitiatorName:       actor.Name,
			Status:              models.StatusInStock,
		}
		if err := repositories.NewMovementRepository(tx).Create(rec); err != nil {
			return &PersistenceError{Op: "append movement", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(models.MovementAcquisition).Inc()
	return rec, nil
}

func validateCheckoutFields(item CheckoutItem) error {
	if item.MaterialID == 0 {
		return &ValidationError{Field: "material_id", Reason: "required"}
	}
	if item.CustodyTargetID == 0 {
		return &ValidationError{Field: "custody_target_id", Reason: "required"}
	}
	if item.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	return nil
}

// RecordCheckout issues qty units to a custody target. The movement is
// created unsigned; signing later is a liability acknowledgment, not a
// stock event.
func (s *StockService) RecordCheckout(actor Actor, item CheckoutItem) (*models.MovementRecord, error) {
	if err := validateCheckoutFields(item); err != nil {
		return nil, reject("validation", err)
	}
	return s.commitCheckout(actor, item)
}

func (s *StockService) commitCheckout(actor Actor, item CheckoutItem) (*models.MovementRecord, error) {
	defer s.locks.lock(item.MaterialID)()

	var rec *models.MovementRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		materials := repositories.NewMaterialRepository(tx)
		material, err := loadMaterial(tx, item.MaterialID)
		if err != nil {
			return err
		}

		var person models.Person
		if err := tx.First(&person, "id = ?", item.CustodyTargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPersonNotFound
			}
			return &PersistenceError{Op: "load custody target", Err: err}
		}

		rec = &models.MovementRecord{
			ID:                  types.SnowflakeID(idgen.GenerateID()),
			Type:                models.MovementCheckout,
			MaterialID:          material.ID,
			MaterialDescription: material.Description,
			Quantity:            item.Quantity,
			Date:                time.Now(),
			InitiatorID:         actor.ID,
			InitiatorName:       actor.Name,
			CustodyTargetID:     person.ID,
			CustodyTargetName:   person.DisplayName(),
			Status:              models.StatusCustodied,
		}

		if item.VehicleID != 0 {
			var vehicle models.Vehicle
			if err := tx.First(&vehicle, "id = ?", item.VehicleID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrVehicleNotFound
				}
				return &PersistenceError{Op: "load vehicle", Err: err}
			}
			rec.VehicleID = vehicle.ID
			rec.VehicleDescription = vehicle.Description
		}

		ok, err := materials.ReserveAvailable(material.ID, item.Quantity)
		if err != nil {
			return &PersistenceError{Op: "reserve stock", Err: err}
		}
		if !ok {
			return reject("insufficient_stock",
				insufficientStock(tx, material.ID, item.Quantity, material.AvailableQuantity))
		}

		if err := repositories.NewMovementRepository(tx).Create(rec); err != nil {
			return &PersistenceError{Op: "append movement", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(models.MovementCheckout).Inc()
	return rec, nil
}

// RecordBatchCheckout validates every item before any write: a single
// failing item rejects the whole batch with nothing committed. Passing
// items are then persisted sequentially, each as its own commit.
func (s *StockService) RecordBatchCheckout(actor Actor, items []CheckoutItem) ([]*models.MovementRecord, error) {
	if len(items) == 0 {
		return nil, reject("validation", &ValidationError{Field: "items", Reason: "batch is empty"})
	}

	seen := make(map[types.SnowflakeID]bool)
	for _, item := range items {
		if err := validateCheckoutFields(item); err != nil {
			return nil, reject("validation", err)
		}
		if seen[item.MaterialID] {
			return nil, reject("duplicate_item", &DuplicateItemError{MaterialID: item.MaterialID})
		}
		seen[item.MaterialID] = true
	}

	for _, item := range items {
		material, err := loadMaterial(s.DB, item.MaterialID)
		if err != nil {
			return nil, err
		}
		if material.AvailableQuantity < item.Quantity {
			return nil, reject("insufficient_stock", &InsufficientStockError{
				MaterialID: material.ID,
				Requested:  item.Quantity,
				Available:  material.AvailableQuantity,
			})
		}
		var person models.Person
		if err := s.DB.First(&person, "id = ?", item.CustodyTargetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPersonNotFound
			}
			return nil, &PersistenceError{Op: "load custody target", Err: err}
		}
	}

	records := make([]*models.MovementRecord, 0, len(items))
	for _, item := range items {
		// A concurrent operation can still invalidate an item between
		// validation and commit; items committed so far stay committed.
		rec, err := s.commitCheckout(actor, item)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// RecordDisposal removes qty units permanently: total and available
// both shrink.
func (s *StockService) RecordDisposal(actor Actor, materialID types.SnowflakeID, qty int) (*models.MovementRecord, error) {
	if materialID == 0 {
		return nil, reject("validation", &ValidationError{Field: "material_id", Reason: "required"})
	}
	if qty <= 0 {
		return nil, reject("validation", &ValidationError{Field: "quantity", Reason: "must be greater than zero"})
	}

	defer s.locks.lock(materialID)()

	var rec *models.MovementRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		materials := repositories.NewMaterialRepository(tx)
		material, err := loadMaterial(tx, materialID)
		if err != nil {
			return err
		}

		ok, err := materials.ReserveAvailable(material.ID, qty)
		if err != nil {
			return &PersistenceError{Op: "reserve stock", Err: err}
		}
		if !ok {
			return reject("insufficient_stock",
				insufficientStock(tx, material.ID, qty, material.AvailableQuantity))
		}
		if err := materials.AddTotal(material.ID, -qty); err != nil {
			return &PersistenceError{Op: "update total", Err: err}
		}

		rec = &models.MovementRecord{
			ID:                  types.SnowflakeID(idgen.GenerateID()),
			Type:                models.MovementDisposal,
			MaterialID:          material.ID,
			MaterialDescription: material.Description,
			Quantity:            qty,
			Date:                time.Now(),
			InitiatorID:         actor.ID,
			InitiatorName:       actor.Name,
			Status:              models.StatusDisposed,
		}
		if err := repositories.NewMovementRepository(tx).Create(rec); err != nil {
			return &PersistenceError{Op: "append movement", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(models.MovementDisposal).Inc()
	return rec, nil
}

// RecordRepairHold pulls qty units out of availability while they sit
// in maintenance. Total is unchanged: the units are still owned.
func (s *StockService) RecordRepairHold(actor Actor, materialID types.SnowflakeID, qty int, location, reference, reason string) (*models.MovementRecord, error) {
	if materialID == 0 {
		return nil, reject("validation", &ValidationError{Field: "material_id", Reason: "required"})
	}
	if strings.TrimSpace(location) == "" {
		return nil, reject("validation", &ValidationError{Field: "repair_location", Reason: "required"})
	}
	if strings.TrimSpace(reference) == "" {
		return nil, reject("validation", &ValidationError{Field: "repair_reference", Reason: "required"})
	}
	if strings.TrimSpace(reason) == "" {
		return nil, reject("validation", &ValidationError{Field: "repair_reason", Reason: "required"})
	}
	if qty <= 0 {
		return nil, reject("validation", &ValidationError{Field: "quantity", Reason: "must be greater than zero"})
	}

	defer s.locks.lock(materialID)()

	var rec *models.MovementRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		materials := repositories.NewMaterialRepository(tx)
		material, err := loadMaterial(tx, materialID)
		if err != nil {
			return err
		}

		ok, err := materials.ReserveAvailable(material.ID, qty)
		if err != nil {
			return &PersistenceError{Op: "reserve stock", Err: err}
		}
		if !ok {
			return reject("insufficient_stock",
				insufficientStock(tx, material.ID, qty, material.AvailableQuantity))
		}
		if err := materials.SetOperability(material.ID, models.OperabilityInMaintenance); err != nil {
			return &PersistenceError{Op: "update operability", Err: err}
		}

		rec = &models.MovementRecord{
			ID:                  types.SnowflakeID(idgen.GenerateID()),
			Type:                models.MovementRepair,
			MaterialID:          material.ID,
			MaterialDescription: material.Description,
			Quantity:            qty,
			Date:                time.Now(),
			InitiatorID:         actor.ID,
			InitiatorName:       actor.Name,
			RepairLocation:      location,
			RepairReference:     reference,
			RepairReason:        reason,
			Status:              models.StatusInRepair,
		}
		if err := repositories.NewMovementRepository(tx).Create(rec); err != nil {
			return &PersistenceError{Op: "append movement", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(models.MovementRepair).Inc()
	return rec, nil
}

// RecordReturn closes an open checkout: availability is restored and a
// pending return acknowledgment is created for whoever reconciles it.
// A second return of the same movement is rejected with no state change.
func (s *StockService) RecordReturn(actor Actor, movementID types.SnowflakeID) (*models.ReturnAcknowledgment, error) {
	movement, err := repositories.NewMovementRepository(s.DB).GetByID(movementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, &PersistenceError{Op: "load movement", Err: err}
	}
	if movement.Type != models.MovementCheckout {
		return nil, ErrNotCheckout
	}
	if movement.Returned {
		return nil, ErrAlreadyReturned
	}

	defer s.locks.lock(movement.MaterialID)()

	var ack *models.ReturnAcknowledgment
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := repositories.NewMovementRepository(tx).MarkReturned(movement.ID)
		if err != nil {
			return &PersistenceError{Op: "mark returned", Err: err}
		}
		if !ok {
			return ErrAlreadyReturned
		}
		if err := repositories.NewMaterialRepository(tx).ReleaseAvailable(movement.MaterialID, movement.Quantity); err != nil {
			return &PersistenceError{Op: "restore available", Err: err}
		}

		ack = &models.ReturnAcknowledgment{
			ID:                  types.SnowflakeID(idgen.GenerateID()),
			MovementID:          movement.ID,
			MaterialDescription: movement.MaterialDescription,
			CustodyTargetName:   movement.CustodyTargetName,
			Quantity:            movement.Quantity,
			Status:              models.AckPending,
		}
		if err := repositories.NewAcknowledgmentRepository(tx).Create(ack); err != nil {
			return &PersistenceError{Op: "create acknowledgment", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// CompleteRepair closes an open repair hold: the units come back to
// availability, and the material goes back to operational once no other
// repair on it remains open.
func (s *StockService) CompleteRepair(actor Actor, movementID types.SnowflakeID) error {
	movement, err := repositories.NewMovementRepository(s.DB).GetByID(movementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovementNotFound
		}
		return &PersistenceError{Op: "load movement", Err: err}
	}
	if movement.Type != models.MovementRepair {
		return ErrNotRepair
	}
	if movement.Returned {
		return ErrAlreadyReturned
	}

	defer s.locks.lock(movement.MaterialID)()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		movements := repositories.NewMovementRepository(tx)
		ok, err := movements.MarkReturned(movement.ID)
		if err != nil {
			return &PersistenceError{Op: "mark returned", Err: err}
		}
		if !ok {
			return ErrAlreadyReturned
		}

		materials := repositories.NewMaterialRepository(tx)
		if err := materials.ReleaseAvailable(movement.MaterialID, movement.Quantity); err != nil {
			return &PersistenceError{Op: "restore available", Err: err}
		}

		open, err := movements.CountOpenRepairsForMaterial(movement.MaterialID)
		if err != nil {
			return &PersistenceError{Op: "count open repairs", Err: err}
		}
		if open == 0 {
			if err := materials.SetOperability(movement.MaterialID, models.OperabilityOperational); err != nil {
				return &PersistenceError{Op: "update operability", Err: err}
			}
		}
		return nil
	})
}
