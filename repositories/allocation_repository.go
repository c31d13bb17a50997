package repositories

import (
	"time"

	"cautela-app/models"
	"cautela-app/types"

	"gorm.io/gorm"
)

type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db}
}

func (r *AllocationRepository) Create(rec *models.AllocationRecord) error {
	return r.db.Create(rec).Error
}

func (r *AllocationRepository) GetByID(id types.SnowflakeID) (*models.AllocationRecord, error) {
	var rec models.AllocationRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindActive returns the single active record for (vehicle, material),
// or gorm.ErrRecordNotFound.
func (r *AllocationRepository) FindActive(vehicleID, materialID types.SnowflakeID) (*models.AllocationRecord, error) {
	var rec models.AllocationRecord
	err := r.db.
		Where("vehicle_id = ? AND material_id = ? AND status = ?", vehicleID, materialID, models.AllocationActive).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddQuantity merges qty into an active record. Returns false when the
// record is no longer active.
func (r *AllocationRepository) AddQuantity(id types.SnowflakeID, qty int) (bool, error) {
	res := r.db.Model(&models.AllocationRecord{}).
		Where("id = ? AND status = ?", id, models.AllocationActive).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkDeallocated transitions allocated→deallocated exactly once.
func (r *AllocationRepository) MarkDeallocated(id types.SnowflakeID, reason string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.AllocationRecord{}).
		Where("id = ? AND status = ?", id, models.AllocationActive).
		Updates(map[string]interface{}{
			"status":         models.AllocationDeallocated,
			"deallocated_at": &now,
			"reason":         reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AllocationRepository) ActiveByVehicle(vehicleID types.SnowflakeID) ([]models.AllocationRecord, error) {
	var records []models.AllocationRecord
	err := r.db.
		Where("vehicle_id = ? AND status = ?", vehicleID, models.AllocationActive).
		Order("allocated_at").
		Find(&records).Error
	return records, err
}

func (r *AllocationRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.AllocationRecord{}).
		Where("status = ?", models.AllocationActive).
		Count(&count).Error
	return count, err
}

func (r *AllocationRepository) CountActiveByVehicle(vehicleID types.SnowflakeID) (int64, error) {
	var count int64
	err := r.db.Model(&models.AllocationRecord{}).
		Where("vehicle_id = ? AND status = ?", vehicleID, models.AllocationActive).
		Count(&count).Error
	return count, err
}
