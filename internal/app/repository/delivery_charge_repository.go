package repository

import (
	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type DeliveryChargeRepository interface {
	Create(charge *model.DeliveryCharge) error
	FindAll() ([]model.DeliveryCharge, error)
	FindByID(id uint) (*model.DeliveryCharge, error)
	FindByRegion(region string) (*model.DeliveryCharge, error)
	Update(charge *model.DeliveryCharge) error
	Delete(id uint) error
}

type deliveryChargeRepository struct {
	db *gorm.DB
}

func NewDeliveryChargeRepository(db *gorm.DB) DeliveryChargeRepository {
	return &deliveryChargeRepository{db: db}
}

func (r *deliveryChargeRepository) Create(charge *model.DeliveryCharge) error {
	if err := r.db.Create(charge).Error; err != nil {
		logger.Error("Failed to create delivery charge in database", err, map[string]interface{}{
			"region": charge.Region,
		})
		return err
	}

	logger.Debug("Delivery charge created in database", map[string]interface{}{
		"delivery_charge_id": charge.ID,
		"region":             charge.Region,
	})
	return nil
}

func (r *deliveryChargeRepository) FindAll() ([]model.DeliveryCharge, error) {
	var charges []model.DeliveryCharge
	if err := r.db.Order("region ASC").Find(&charges).Error; err != nil {
		logger.Error("Failed to list delivery charges in database", err)
		return nil, err
	}
	return charges, nil
}

func (r *deliveryChargeRepository) FindByID(id uint) (*model.DeliveryCharge, error) {
	var charge model.DeliveryCharge
	if err := r.db.First(&charge, id).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *deliveryChargeRepository) FindByRegion(region string) (*model.DeliveryCharge, error) {
	var charge model.DeliveryCharge
	if err := r.db.Where("region = ?", region).First(&charge).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *deliveryChargeRepository) Update(charge *model.DeliveryCharge) error {
	if err := r.db.Save(charge).Error; err != nil {
		logger.Error("Failed to update delivery charge in database", err, map[string]interface{}{
			"delivery_charge_id": charge.ID,
		})
		return err
	}
	return nil
}

func (r *deliveryChargeRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.DeliveryCharge{}, id).Error; err != nil {
		logger.Error("Failed to delete delivery charge from database", err, map[string]interface{}{
			"delivery_charge_id": id,
		})
		return err
	}
	return nil
}
