package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// snapshotCacheTTL keeps catalog reads cheap without letting stale prices
// linger. Discount changes propagate within a minute.
const snapshotCacheTTL = time.Minute

// ProductService proxies the commerce backend's catalog with a
// read-through Redis cache of product snapshots.
type ProductService interface {
	ProductCatalog
	List(ctx context.Context, req commerce.ListProductsRequest) ([]model.ProductSnapshot, int64, error)
	Get(ctx context.Context, productID string) (*model.ProductSnapshot, error)
}

type productService struct {
	client *commerce.Client
	cache  *redis.Client
}

func NewProductService(client *commerce.Client, cache *redis.Client) ProductService {
	return &productService{client: client, cache: cache}
}

func (s *productService) List(ctx context.Context, req commerce.ListProductsRequest) ([]model.ProductSnapshot, int64, error) {
	products, total, err := s.client.ListProducts(ctx, req)
	if err != nil {
		logger.Error("Failed to list products from backend", err, map[string]interface{}{
			"category": req.Category,
			"page":     req.Page,
		})
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) Get(ctx context.Context, productID string) (*model.ProductSnapshot, error) {
	cacheKey := "product:snapshot:" + productID

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var snapshot model.ProductSnapshot
			if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
				return &snapshot, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Warn("Product cache read failed, falling through to backend", map[string]interface{}{
				"product_id": productID,
				"error":      err.Error(),
			})
		}
	}

	snapshot, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product from backend", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, snapshotCacheTTL).Err(); err != nil {
				logger.Warn("Product cache write failed", map[string]interface{}{
					"product_id": productID,
					"error":      err.Error(),
				})
			}
		}
	}

	return snapshot, nil
}

// Snapshot satisfies ProductCatalog for the guest cart store.
func (s *productService) Snapshot(ctx context.Context, productID string) (*model.ProductSnapshot, error) {
	return s.Get(ctx, productID)
}
