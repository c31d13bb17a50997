package repositories

import (
	"time"

	"cautela-app/models"
	"cautela-app/types"

	"gorm.io/gorm"
)

type AcknowledgmentRepository struct {
	db *gorm.DB
}

func NewAcknowledgmentRepository(db *gorm.DB) *AcknowledgmentRepository {
	return &AcknowledgmentRepository{db}
}

func (r *AcknowledgmentRepository) Create(ack *models.ReturnAcknowledgment) error {
	return r.db.Create(ack).Error
}

func (r *AcknowledgmentRepository) GetByID(id types.SnowflakeID) (*models.ReturnAcknowledgment, error) {
	var ack models.ReturnAcknowledgment
	if err := r.db.First(&ack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ack, nil
}

// MarkAcknowledged transitions pending→acknowledged exactly once.
func (r *AcknowledgmentRepository) MarkAcknowledged(id types.SnowflakeID) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.ReturnAcknowledgment{}).
		Where("id = ? AND status = ?", id, models.AckPending).
		Updates(map[string]interface{}{
			"status":          models.AckAcknowledged,
			"acknowledged_at": &now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AcknowledgmentRepository) Pending() ([]models.ReturnAcknowledgment, error) {
	var acks []models.ReturnAcknowledgment
	err := r.db.
		Where("status = ?", models.AckPending).
		Order("created_at").
		Find(&acks).Error
	return acks, err
}

func (r *AcknowledgmentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&models.ReturnAcknowledgment{}).
		Where("status = ?", models.AckPending).
		Count(&count).Error
	return count, err
}
