package service

import (
	"context"
	"testing"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckout(t *testing.T) (CheckoutService, CartStore) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	coupons := NewCouponService(repository.NewCouponRepository(testDB))
	delivery := NewDeliveryService(repository.NewDeliveryChargeRepository(testDB), testDefaultCharge)

	_, err = coupons.CreateCoupon(CouponInput{
		Code:   "FLAT100",
		Kind:   model.CouponFixed,
		Value:  100,
		Active: true,
	})
	require.NoError(t, err)
	_, err = delivery.CreateCharge(DeliveryChargeInput{Region: "seoul", Amount: 2500})
	require.NoError(t, err)

	store := newGuestCartStore("sess-1", newMemoryGuestCartRepo(), testCatalog(), nil)
	return NewCheckoutService(coupons, delivery), store
}

func TestQuoteCart(t *testing.T) {
	svc, store := setupCheckout(t)
	ctx := context.Background()

	// juice-1 is 500 with a 20% discount capped at 80 -> 420 each
	_, err := store.AddLine(ctx, AddLineInput{ProductID: "juice-1", Quantity: 2})
	require.NoError(t, err)

	quote, err := svc.QuoteCart(ctx, store, "FLAT100", "seoul")
	require.NoError(t, err)

	assert.Equal(t, 840.0, quote.Subtotal)
	assert.Equal(t, 100.0, quote.Discount)
	assert.Equal(t, 2500.0, quote.DeliveryFee)
	assert.Equal(t, 840.0-100.0+2500.0, quote.Total)
	assert.Len(t, quote.Lines, 1)
}

func TestQuoteCartWithoutCouponOrRegion(t *testing.T) {
	svc, store := setupCheckout(t)
	ctx := context.Background()

	_, err := store.AddLine(ctx, AddLineInput{ProductID: "juice-2", Quantity: 1})
	require.NoError(t, err)

	quote, err := svc.QuoteCart(ctx, store, "", "")
	require.NoError(t, err)

	assert.Equal(t, 300.0, quote.Subtotal)
	assert.Zero(t, quote.Discount)
	assert.Zero(t, quote.DeliveryFee)
	assert.Equal(t, 300.0, quote.Total)
}

func TestQuoteCartRejectsBadCoupon(t *testing.T) {
	svc, store := setupCheckout(t)
	ctx := context.Background()

	_, err := store.AddLine(ctx, AddLineInput{ProductID: "juice-2", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.QuoteCart(ctx, store, "NOPE", "seoul")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
