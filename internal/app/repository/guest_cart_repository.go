package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// guestCartTTL keeps abandoned anonymous carts around for a month before
// Redis drops them.
const guestCartTTL = 30 * 24 * time.Hour

// GuestCartRepository persists anonymous cart line lists keyed by the
// guest's session id. It is the server-side rendition of the browser's
// local-storage cart: one serialized list per session, overwritten after
// every mutation.
type GuestCartRepository interface {
	Load(ctx context.Context, sessionID string) ([]model.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []model.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

type guestCartRepository struct {
	client *redis.Client
}

func NewGuestCartRepository(client *redis.Client) GuestCartRepository {
	return &guestCartRepository{client: client}
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:guest:%s", sessionID)
}

func (r *guestCartRepository) Load(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	raw, err := r.client.Get(ctx, guestCartKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		// No cart yet - an empty one
		return []model.CartLine{}, nil
	}
	if err != nil {
		logger.Error("Failed to load guest cart from redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Corrupt payload: treat as empty rather than locking the shopper out
		logger.Warn("Discarding unreadable guest cart payload", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return []model.CartLine{}, nil
	}
	return lines, nil
}

func (r *guestCartRepository) Save(ctx context.Context, sessionID string, lines []model.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal guest cart: %w", err)
	}

	if err := r.client.Set(ctx, guestCartKey(sessionID), payload, guestCartTTL).Err(); err != nil {
		logger.Error("Failed to save guest cart to redis", err, map[string]interface{}{
			"session_id": sessionID,
			"lines":      len(lines),
		})
		return err
	}
	return nil
}

func (r *guestCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, guestCartKey(sessionID)).Err(); err != nil {
		logger.Error("Failed to delete guest cart from redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}
