package service

import (
	"errors"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/fruitfulhq/storefront-backend/pkg/pricing"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponCodeExists    = errors.New("coupon code already exists")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponMinimumNotMet = errors.New("order subtotal below coupon minimum")
)

// CouponInput carries the admin console's create/update payload.
type CouponInput struct {
	Code           string
	Kind           model.CouponKind
	Value          float64
	MaxDiscount    *float64
	MinOrderAmount float64
	ExpiresAt      *time.Time
	Active         bool
}

type CouponService interface {
	ListCoupons() ([]model.Coupon, error)
	GetCoupon(id uint) (*model.Coupon, error)
	CreateCoupon(input CouponInput) (*model.Coupon, error)
	UpdateCoupon(id uint, input CouponInput) (*model.Coupon, error)
	DeleteCoupon(id uint) error
	// Redeem validates a code against an order subtotal and returns the
	// deduction it grants. The arithmetic reuses the pricing resolver.
	Redeem(code string, subtotal float64) (float64, error)
	DeactivateExpired() (int64, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{couponRepo: couponRepo}
}

func (s *couponService) ListCoupons() ([]model.Coupon, error) {
	return s.couponRepo.FindAll()
}

func (s *couponService) GetCoupon(id uint) (*model.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) CreateCoupon(input CouponInput) (*model.Coupon, error) {
	existing, err := s.couponRepo.FindByCode(input.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Coupon creation failed: code already exists", map[string]interface{}{
			"code": input.Code,
		})
		return nil, ErrCouponCodeExists
	}

	coupon := &model.Coupon{
		Code:           input.Code,
		Kind:           input.Kind,
		Value:          input.Value,
		MaxDiscount:    input.MaxDiscount,
		MinOrderAmount: input.MinOrderAmount,
		ExpiresAt:      input.ExpiresAt,
		Active:         input.Active,
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}

	logger.Info("Coupon created", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
		"kind":      coupon.Kind,
	})
	return coupon, nil
}

func (s *couponService) UpdateCoupon(id uint, input CouponInput) (*model.Coupon, error) {
	coupon, err := s.GetCoupon(id)
	if err != nil {
		return nil, err
	}

	if input.Code != coupon.Code {
		other, err := s.couponRepo.FindByCode(input.Code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrCouponCodeExists
		}
	}

	coupon.Code = input.Code
	coupon.Kind = input.Kind
	coupon.Value = input.Value
	coupon.MaxDiscount = input.MaxDiscount
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.ExpiresAt = input.ExpiresAt
	coupon.Active = input.Active

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}

	logger.Info("Coupon updated", map[string]interface{}{
		"coupon_id": coupon.ID,
		"code":      coupon.Code,
	})
	return coupon, nil
}

func (s *couponService) DeleteCoupon(id uint) error {
	if _, err := s.GetCoupon(id); err != nil {
		return err
	}
	return s.couponRepo.Delete(id)
}

func (s *couponService) Redeem(code string, subtotal float64) (float64, error) {
	coupon, err := s.couponRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCouponNotFound
		}
		return 0, err
	}

	if !coupon.Active {
		return 0, ErrCouponInactive
	}
	if coupon.Expired(time.Now()) {
		return 0, ErrCouponExpired
	}
	if subtotal < coupon.MinOrderAmount {
		return 0, ErrCouponMinimumNotMet
	}

	discount := &pricing.Discount{
		Kind:      pricing.DiscountKind(coupon.Kind),
		Value:     coupon.Value,
		MaxAmount: coupon.MaxDiscount,
	}
	return pricing.Resolve(subtotal, discount).Deduction, nil
}

func (s *couponService) DeactivateExpired() (int64, error) {
	count, err := s.couponRepo.DeactivateExpired(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Deactivated expired coupons", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
