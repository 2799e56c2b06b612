package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

// remoteCartStore proxies an authenticated shopper's cart to the commerce
// backend. The backend is the source of truth: every mutation is forwarded
// and, on success, the whole cart is re-fetched and replaces the cached
// copy wholesale. No optimistic partial updates. A failed remote call
// leaves the previously loaded state untouched.
type remoteCartStore struct {
	client      *commerce.Client
	token       string
	userID      uint
	broadcaster CartBroadcaster
}

func newRemoteCartStore(
	client *commerce.Client,
	token string,
	userID uint,
	broadcaster CartBroadcaster,
) *remoteCartStore {
	return &remoteCartStore{
		client:      client,
		token:       token,
		userID:      userID,
		broadcaster: broadcaster,
	}
}

func (s *remoteCartStore) cartKey() string {
	return fmt.Sprintf("user:%d", s.userID)
}

func (s *remoteCartStore) Lines(ctx context.Context) ([]model.CartLine, error) {
	lines, err := s.client.FetchCart(ctx, s.token)
	if err != nil {
		return nil, s.wrap(err)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}

func (s *remoteCartStore) AddLine(ctx context.Context, input AddLineInput) ([]model.CartLine, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	err := s.client.AddCartLine(ctx, s.token, commerce.AddLineRequest{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Variant:   input.Variant,
	})
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Warn("Remote cart add failed, keeping prior state", map[string]interface{}{
			"user_id":    s.userID,
			"product_id": input.ProductID,
			"error":      err.Error(),
		})
		return nil, s.wrap(err)
	}

	return s.reload(ctx)
}

func (s *remoteCartStore) RemoveLine(ctx context.Context, lineID string) ([]model.CartLine, error) {
	err := s.client.RemoveCartLine(ctx, s.token, lineID)
	if err != nil && !errors.Is(err, commerce.ErrNotFound) {
		// A vanished line is benign; anything else keeps prior state
		return nil, s.wrap(err)
	}

	return s.reload(ctx)
}

func (s *remoteCartStore) SetQuantity(ctx context.Context, lineID string, quantity int) ([]model.CartLine, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}

	err := s.client.UpdateCartLine(ctx, s.token, lineID, quantity)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, s.wrap(err)
	}

	return s.reload(ctx)
}

func (s *remoteCartStore) Clear(ctx context.Context) ([]model.CartLine, error) {
	if err := s.client.ClearCart(ctx, s.token); err != nil {
		return nil, s.wrap(err)
	}

	return s.reload(ctx)
}

func (s *remoteCartStore) Total(ctx context.Context) (float64, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}
	return model.CartTotal(lines), nil
}

// reload re-fetches the whole cart after a successful mutation and
// broadcasts the replacement before returning.
func (s *remoteCartStore) reload(ctx context.Context) ([]model.CartLine, error) {
	lines, err := s.client.FetchCart(ctx, s.token)
	if err != nil {
		// The mutation landed but the refresh did not; the next load
		// converges. Surface the failure rather than a stale list.
		logger.Error("Cart reload after mutation failed", err, map[string]interface{}{
			"user_id": s.userID,
		})
		return nil, s.wrap(err)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}

	if s.broadcaster != nil {
		s.broadcaster.PublishCart(s.cartKey(), lines)
	}
	return lines, nil
}

func (s *remoteCartStore) wrap(err error) error {
	if errors.Is(err, commerce.ErrUnauthorized) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
}
