package service

import (
	"testing"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCouponService(t *testing.T) CouponService {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewCouponService(repository.NewCouponRepository(testDB))
}

func TestCreateCoupon(t *testing.T) {
	svc := setupCouponService(t)

	coupon, err := svc.CreateCoupon(CouponInput{
		Code:   "SUMMER20",
		Kind:   model.CouponPercentage,
		Value:  20,
		Active: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, coupon.ID)
	assert.Equal(t, "SUMMER20", coupon.Code)

	// Duplicate codes are rejected
	_, err = svc.CreateCoupon(CouponInput{
		Code:   "SUMMER20",
		Kind:   model.CouponFixed,
		Value:  500,
		Active: true,
	})
	assert.ErrorIs(t, err, ErrCouponCodeExists)
}

func TestUpdateCoupon(t *testing.T) {
	svc := setupCouponService(t)

	coupon, err := svc.CreateCoupon(CouponInput{
		Code:   "SUMMER20",
		Kind:   model.CouponPercentage,
		Value:  20,
		Active: true,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCoupon(coupon.ID, CouponInput{
		Code:   "SUMMER25",
		Kind:   model.CouponPercentage,
		Value:  25,
		Active: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", updated.Code)
	assert.Equal(t, 25.0, updated.Value)
	assert.False(t, updated.Active)

	_, err = svc.UpdateCoupon(9999, CouponInput{Code: "X"})
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestDeleteCoupon(t *testing.T) {
	svc := setupCouponService(t)

	coupon, err := svc.CreateCoupon(CouponInput{
		Code:   "GONE",
		Kind:   model.CouponFixed,
		Value:  100,
		Active: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCoupon(coupon.ID))

	_, err = svc.GetCoupon(coupon.ID)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestRedeemCoupon(t *testing.T) {
	svc := setupCouponService(t)

	cap := 80.0
	past := time.Now().Add(-time.Hour)

	seed := []CouponInput{
		{Code: "PCT20", Kind: model.CouponPercentage, Value: 20, MaxDiscount: &cap, Active: true},
		{Code: "FLAT500", Kind: model.CouponFixed, Value: 500, Active: true},
		{Code: "BIGSPEND", Kind: model.CouponPercentage, Value: 10, MinOrderAmount: 10000, Active: true},
		{Code: "PAUSED", Kind: model.CouponFixed, Value: 100, Active: false},
		{Code: "BYGONE", Kind: model.CouponFixed, Value: 100, ExpiresAt: &past, Active: true},
	}
	for _, input := range seed {
		_, err := svc.CreateCoupon(input)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		code     string
		subtotal float64
		want     float64
		wantErr  error
	}{
		{name: "percentage under cap", code: "PCT20", subtotal: 300, want: 60},
		{name: "percentage hits cap", code: "PCT20", subtotal: 1000, want: 80},
		{name: "fixed amount", code: "FLAT500", subtotal: 2000, want: 500},
		{name: "fixed clamped to subtotal", code: "FLAT500", subtotal: 300, want: 300},
		{name: "below minimum", code: "BIGSPEND", subtotal: 5000, wantErr: ErrCouponMinimumNotMet},
		{name: "inactive", code: "PAUSED", subtotal: 1000, wantErr: ErrCouponInactive},
		{name: "expired", code: "BYGONE", subtotal: 1000, wantErr: ErrCouponExpired},
		{name: "unknown code", code: "NOPE", subtotal: 1000, wantErr: ErrCouponNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Redeem(tt.code, tt.subtotal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeactivateExpiredCoupons(t *testing.T) {
	svc := setupCouponService(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	_, err := svc.CreateCoupon(CouponInput{Code: "OLD1", Kind: model.CouponFixed, Value: 10, ExpiresAt: &past, Active: true})
	require.NoError(t, err)
	_, err = svc.CreateCoupon(CouponInput{Code: "OLD2", Kind: model.CouponFixed, Value: 10, ExpiresAt: &past, Active: true})
	require.NoError(t, err)
	keep, err := svc.CreateCoupon(CouponInput{Code: "FRESH", Kind: model.CouponFixed, Value: 10, ExpiresAt: &future, Active: true})
	require.NoError(t, err)

	count, err := svc.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	still, err := svc.GetCoupon(keep.ID)
	require.NoError(t, err)
	assert.True(t, still.Active)

	// Idempotent on a second run
	count, err = svc.DeactivateExpired()
	require.NoError(t, err)
	assert.Zero(t, count)
}
