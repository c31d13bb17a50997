package repositories

import (
	"time"

	"cautela-app/models"
	"cautela-app/types"

	"gorm.io/gorm"
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db}
}

func (r *MovementRepository) Create(rec *models.MovementRecord) error {
	return r.db.Create(rec).Error
}

func (r *MovementRepository) GetByID(id types.SnowflakeID) (*models.MovementRecord, error) {
	var rec models.MovementRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Recent returns the latest movements, newest first.
func (r *MovementRepository) Recent(limit int) ([]models.MovementRecord, error) {
	var records []models.MovementRecord
	if err := r.db.Order("date DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MarkReturned flips returned false→true. Returns false when the
// movement was already returned, so a second return is a no-op.
func (r *MovementRepository) MarkReturned(id types.SnowflakeID) (bool, error) {
	res := r.db.Model(&models.MovementRecord{}).
		Where("id = ? AND returned = ?", id, false).
		Update("returned", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkSigned flips signed false→true, once.
func (r *MovementRepository) MarkSigned(id types.SnowflakeID) (bool, error) {
	res := r.db.Model(&models.MovementRecord{}).
		Where("id = ? AND signed = ?", id, false).
		Update("signed", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MovementRepository) CountOpenCheckouts() (int64, error) {
	var count int64
	err := r.db.Model(&models.MovementRecord{}).
		Where("type = ? AND returned = ?", models.MovementCheckout, false).
		Count(&count).Error
	return count, err
}

func (r *MovementRepository) CountPendingSignatures() (int64, error) {
	var count int64
	err := r.db.Model(&models.MovementRecord{}).
		Where("type = ? AND signed = ? AND returned = ?", models.MovementCheckout, false, false).
		Count(&count).Error
	return count, err
}

func (r *MovementRepository) CountOpenRepairs() (int64, error) {
	var count int64
	err := r.db.Model(&models.MovementRecord{}).
		Where("type = ? AND returned = ?", models.MovementRepair, false).
		Count(&count).Error
	return count, err
}

func (r *MovementRepository) CountOpenRepairsForMaterial(materialID types.SnowflakeID) (int64, error) {
	var count int64
	err := r.db.Model(&models.MovementRecord{}).
		Where("type = ? AND material_id = ? AND returned = ?", models.MovementRepair, materialID, false).
		Count(&count).Error
	return count, err
}

// PendingSignatures lists unsigned checkouts created before the cutoff,
// used by the reminder processor.
func (r *MovementRepository) PendingSignatures(before time.Time) ([]models.MovementRecord, error) {
	var records []models.MovementRecord
	err := r.db.
		Where("type = ? AND signed = ? AND returned = ? AND date < ?",
			models.MovementCheckout, false, false, before).
		Order("date").
		Find(&records).Error
	return records, err
}
