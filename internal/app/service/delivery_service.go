package service

import (
	"errors"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDeliveryRegionNotFound = errors.New("delivery region not found")
	ErrDeliveryRegionExists   = errors.New("delivery region already exists")
)

// DeliveryChargeInput carries the admin console's create/update payload.
type DeliveryChargeInput struct {
	Region         string
	Amount         float64
	FreeOverAmount *float64
}

type DeliveryService interface {
	ListCharges() ([]model.DeliveryCharge, error)
	GetCharge(id uint) (*model.DeliveryCharge, error)
	CreateCharge(input DeliveryChargeInput) (*model.DeliveryCharge, error)
	UpdateCharge(id uint, input DeliveryChargeInput) (*model.DeliveryCharge, error)
	DeleteCharge(id uint) error
	// QuoteFor returns the delivery fee for a region and order subtotal.
	// Unknown regions fall back to the configured default charge.
	QuoteFor(region string, subtotal float64) float64
}

type deliveryService struct {
	chargeRepo    repository.DeliveryChargeRepository
	defaultCharge float64
}

func NewDeliveryService(chargeRepo repository.DeliveryChargeRepository, defaultCharge float64) DeliveryService {
	return &deliveryService{
		chargeRepo:    chargeRepo,
		defaultCharge: defaultCharge,
	}
}

func (s *deliveryService) ListCharges() ([]model.DeliveryCharge, error) {
	return s.chargeRepo.FindAll()
}

func (s *deliveryService) GetCharge(id uint) (*model.DeliveryCharge, error) {
	charge, err := s.chargeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryRegionNotFound
		}
		return nil, err
	}
	return charge, nil
}

func (s *deliveryService) CreateCharge(input DeliveryChargeInput) (*model.DeliveryCharge, error) {
	existing, err := s.chargeRepo.FindByRegion(input.Region)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDeliveryRegionExists
	}

	charge := &model.DeliveryCharge{
		Region:         input.Region,
		Amount:         input.Amount,
		FreeOverAmount: input.FreeOverAmount,
	}

	if err := s.chargeRepo.Create(charge); err != nil {
		return nil, err
	}

	logger.Info("Delivery charge created", map[string]interface{}{
		"delivery_charge_id": charge.ID,
		"region":             charge.Region,
		"amount":             charge.Amount,
	})
	return charge, nil
}

func (s *deliveryService) UpdateCharge(id uint, input DeliveryChargeInput) (*model.DeliveryCharge, error) {
	charge, err := s.GetCharge(id)
	if err != nil {
		return nil, err
	}

	if input.Region != charge.Region {
		other, err := s.chargeRepo.FindByRegion(input.Region)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrDeliveryRegionExists
		}
	}

	charge.Region = input.Region
	charge.Amount = input.Amount
	charge.FreeOverAmount = input.FreeOverAmount

	if err := s.chargeRepo.Update(charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (s *deliveryService) DeleteCharge(id uint) error {
	if _, err := s.GetCharge(id); err != nil {
		return err
	}
	return s.chargeRepo.Delete(id)
}

func (s *deliveryService) QuoteFor(region string, subtotal float64) float64 {
	charge, err := s.chargeRepo.FindByRegion(region)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Delivery charge lookup failed, using default", err, map[string]interface{}{
				"region": region,
			})
		}
		return s.defaultCharge
	}
	return charge.ChargeFor(subtotal)
}
