package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogBackend(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []model.ProductSnapshot{
				{ProductID: "juice-1", Name: "Cold-Pressed Orange", Price: 500},
				{ProductID: "juice-2", Name: "Green Detox", Price: 300},
			},
			"total": 2,
		})
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		if id != "juice-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"product": model.ProductSnapshot{ProductID: "juice-1", Name: "Cold-Pressed Orange", Price: 500},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProductServiceList(t *testing.T) {
	var hits int64
	srv := newCatalogBackend(t, &hits)
	client, err := commerce.NewClient(commerce.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	svc := NewProductService(client, nil)

	products, total, err := svc.List(context.Background(), commerce.ListProductsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 2)
	assert.Equal(t, "juice-1", products[0].ProductID)
}

func TestProductServiceGetWithoutCache(t *testing.T) {
	var hits int64
	srv := newCatalogBackend(t, &hits)
	client, err := commerce.NewClient(commerce.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	svc := NewProductService(client, nil)

	snapshot, err := svc.Get(context.Background(), "juice-1")
	require.NoError(t, err)
	assert.Equal(t, "Cold-Pressed Orange", snapshot.Name)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductServiceGetReadsThroughCache(t *testing.T) {
	var hits int64
	srv := newCatalogBackend(t, &hits)
	client, err := commerce.NewClient(commerce.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	cache, mock := redismock.NewClientMock()
	svc := NewProductService(client, cache)

	const cacheKey = "product:snapshot:juice-1"
	snapshot := model.ProductSnapshot{ProductID: "juice-1", Name: "Cold-Pressed Orange", Price: 500}
	payload, err := json.Marshal(&snapshot)
	require.NoError(t, err)

	// First call misses the cache, hits the backend, and writes through
	mock.ExpectGet(cacheKey).RedisNil()
	mock.Regexp().ExpectSet(cacheKey, `.*juice-1.*`, snapshotCacheTTL).SetVal("OK")
	// Second call is served from the cache
	mock.ExpectGet(cacheKey).SetVal(string(payload))

	got, err := svc.Get(context.Background(), "juice-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot.Price, got.Price)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	got, err = svc.Get(context.Background(), "juice-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot.Name, got.Name)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "cached read must not hit the backend")

	assert.NoError(t, mock.ExpectationsWereMet())
}
