package repositories

import (
	"cautela-app/models"
	"cautela-app/types"

	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db}
}

func (r *MaterialRepository) Create(material *models.Material) error {
	return r.db.Create(material).Error
}

func (r *MaterialRepository) GetByID(id types.SnowflakeID) (*models.Material, error) {
	var material models.Material
	if err := r.db.First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) GetAll() ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.Order("description").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *MaterialRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Material{}).Count(&count).Error
	return count, err
}

// ReserveAvailable decrements available_quantity with a conditional
// update, the commit step that keeps concurrent operations from driving
// the quantity negative. Returns false when the stock is insufficient.
func (r *MaterialRepository) ReserveAvailable(id types.SnowflakeID, qty int) (bool, error) {
	res := r.db.Model(&models.Material{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MaterialRepository) ReleaseAvailable(id types.SnowflakeID, qty int) error {
	return r.db.Model(&models.Material{}).
		Where("id = ?", id).
		Update("available_quantity", gorm.Expr("available_quantity + ?", qty)).Error
}

func (r *MaterialRepository) AddTotal(id types.SnowflakeID, delta int) error {
	return r.db.Model(&models.Material{}).
		Where("id = ?", id).
		Update("total_quantity", gorm.Expr("total_quantity + ?", delta)).Error
}

// AddVehicleQuantity applies delta to vehicle_quantity, floored at 0.
func (r *MaterialRepository) AddVehicleQuantity(id types.SnowflakeID, delta int) error {
	return r.db.Model(&models.Material{}).
		Where("id = ?", id).
		Update("vehicle_quantity", gorm.Expr(
			"CASE WHEN vehicle_quantity + ? < 0 THEN 0 ELSE vehicle_quantity + ? END", delta, delta)).Error
}

func (r *MaterialRepository) SetOperability(id types.SnowflakeID, status string) error {
	return r.db.Model(&models.Material{}).
		Where("id = ?", id).
		Update("operability_status", status).Error
}
