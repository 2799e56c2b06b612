package service

import (
	"context"
	"errors"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

// Quote is a checkout preview: the cart subtotal with coupon and delivery
// applied. The actual order placement happens on the commerce backend.
type Quote struct {
	Lines       []model.CartLine `json:"lines"`
	Subtotal    float64          `json:"subtotal"`
	CouponCode  string           `json:"coupon_code,omitempty"`
	Discount    float64          `json:"discount"`
	DeliveryFee float64          `json:"delivery_fee"`
	Total       float64          `json:"total"`
}

type CheckoutService interface {
	// QuoteCart prices a cart with an optional coupon code and delivery
	// region. A rejected coupon fails the quote; an empty code skips it.
	QuoteCart(ctx context.Context, store CartStore, couponCode, region string) (*Quote, error)
}

type checkoutService struct {
	coupons  CouponService
	delivery DeliveryService
}

func NewCheckoutService(coupons CouponService, delivery DeliveryService) CheckoutService {
	return &checkoutService{
		coupons:  coupons,
		delivery: delivery,
	}
}

func (s *checkoutService) QuoteCart(ctx context.Context, store CartStore, couponCode, region string) (*Quote, error) {
	lines, err := store.Lines(ctx)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Lines:    lines,
		Subtotal: model.CartTotal(lines),
	}

	if couponCode != "" {
		discount, err := s.coupons.Redeem(couponCode, quote.Subtotal)
		if err != nil {
			if isCouponRejection(err) {
				return nil, err
			}
			logger.Error("Coupon lookup failed during quote", err, map[string]interface{}{
				"coupon_code": couponCode,
			})
			return nil, err
		}
		quote.CouponCode = couponCode
		quote.Discount = discount
	}

	if region != "" {
		quote.DeliveryFee = s.delivery.QuoteFor(region, quote.Subtotal-quote.Discount)
	}

	quote.Total = quote.Subtotal - quote.Discount + quote.DeliveryFee
	if quote.Total < 0 {
		quote.Total = 0
	}
	return quote, nil
}

func isCouponRejection(err error) bool {
	return errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponInactive) ||
		errors.Is(err, ErrCouponMinimumNotMet)
}
