package service

import (
	"context"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// guestCartStore holds an anonymous shopper's cart. Mutations apply to the
// loaded line list, persist to Redis immediately, then broadcast. Line ids
// are generated here since no backend assigns them.
type guestCartStore struct {
	sessionID   string
	repo        repository.GuestCartRepository
	catalog     ProductCatalog
	broadcaster CartBroadcaster
}

func newGuestCartStore(
	sessionID string,
	repo repository.GuestCartRepository,
	catalog ProductCatalog,
	broadcaster CartBroadcaster,
) *guestCartStore {
	return &guestCartStore{
		sessionID:   sessionID,
		repo:        repo,
		catalog:     catalog,
		broadcaster: broadcaster,
	}
}

func (s *guestCartStore) cartKey() string {
	return "guest:" + s.sessionID
}

func (s *guestCartStore) Lines(ctx context.Context) ([]model.CartLine, error) {
	return s.repo.Load(ctx, s.sessionID)
}

func (s *guestCartStore) AddLine(ctx context.Context, input AddLineInput) ([]model.CartLine, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	lines, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if sameSelection(lines[i], input.ProductID, input.Variant) {
			lines[i].Quantity += input.Quantity
			if input.Variant != nil {
				lines[i].Variant = input.Variant
			}
			merged = true
			break
		}
	}

	if !merged {
		snapshot, err := s.catalog.Snapshot(ctx, input.ProductID)
		if err != nil {
			logger.Warn("Cannot add to guest cart: product snapshot unavailable", map[string]interface{}{
				"session_id": s.sessionID,
				"product_id": input.ProductID,
				"error":      err.Error(),
			})
			return nil, ErrProductNotFound
		}

		lines = append(lines, model.CartLine{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Variant:   input.Variant,
			Product:   *snapshot,
		})
	}

	return s.commit(ctx, lines)
}

func (s *guestCartStore) RemoveLine(ctx context.Context, lineID string) ([]model.CartLine, error) {
	lines, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}

	return s.commit(ctx, kept)
}

func (s *guestCartStore) SetQuantity(ctx context.Context, lineID string, quantity int) ([]model.CartLine, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}

	lines, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	// Same contract as the backend-held cart: updating a line that does
	// not exist is an error, not a silent no-op
	if !found {
		return nil, ErrCartLineNotFound
	}

	return s.commit(ctx, lines)
}

func (s *guestCartStore) Clear(ctx context.Context) ([]model.CartLine, error) {
	if err := s.repo.Delete(ctx, s.sessionID); err != nil {
		return nil, err
	}

	empty := []model.CartLine{}
	s.publish(empty)
	return empty, nil
}

func (s *guestCartStore) Total(ctx context.Context) (float64, error) {
	lines, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		return 0, err
	}
	return model.CartTotal(lines), nil
}

// commit persists the line list and broadcasts it before handing control
// back to the caller.
func (s *guestCartStore) commit(ctx context.Context, lines []model.CartLine) ([]model.CartLine, error) {
	if err := s.repo.Save(ctx, s.sessionID, lines); err != nil {
		return nil, err
	}
	s.publish(lines)
	return lines, nil
}

func (s *guestCartStore) publish(lines []model.CartLine) {
	if s.broadcaster != nil {
		s.broadcaster.PublishCart(s.cartKey(), lines)
	}
}
