package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, ServiceKey: "svc-key"})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	client, err := NewClient(Config{})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestFetchCart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer shopper-token", r.Header.Get("Authorization"))
		assert.Equal(t, "svc-key", r.Header.Get("X-Service-Key"))

		json.NewEncoder(w).Encode(cartEnvelope{Lines: []model.CartLine{
			{ID: "l1", ProductID: "p1", Quantity: 2, Product: model.ProductSnapshot{ProductID: "p1", Name: "Green Glow", Price: 8.5}},
		}})
	})

	lines, err := client.FetchCart(context.Background(), "shopper-token")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "l1", lines[0].ID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddCartLine_BackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "INTERNAL", Message: "boom"})
	})

	err := client.AddCartLine(context.Background(), "tok", AddLineRequest{ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, ErrBackendFailure)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"Unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"Forbidden", http.StatusForbidden, ErrUnauthorized},
		{"Not found", http.StatusNotFound, ErrNotFound},
		{"Bad request", http.StatusBadRequest, ErrInvalidRequest},
		{"Server error", http.StatusBadGateway, ErrBackendFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.FetchCart(context.Background(), "tok")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkError(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.FetchCart(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestGetProduct(t *testing.T) {
	max := 2.0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p42", r.URL.Path)
		json.NewEncoder(w).Encode(productEnvelope{Product: model.ProductSnapshot{
			ProductID:     "p42",
			Name:          "Cold-Pressed Citrus",
			Price:         12,
			DiscountKind:  "percentage",
			DiscountValue: 20,
			MaxDiscount:   &max,
		}})
	})

	product, err := client.GetProduct(context.Background(), "p42")
	require.NoError(t, err)
	assert.Equal(t, "Cold-Pressed Citrus", product.Name)

	d := product.Discount()
	require.NotNil(t, d)
	assert.Equal(t, 20.0, d.Value)
}

func TestListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(orderListEnvelope{
			Orders: []Order{{ID: "o1", Status: "pending", Total: 25}},
			Total:  1,
		})
	})

	orders, total, err := client.ListOrders(context.Background(), "admin-tok", ListOrdersRequest{Status: "pending", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "amy@example.com", req.Email)
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "acc", RefreshToken: "ref"})
	})

	tokens, err := client.Login(context.Background(), LoginRequest{Email: "amy@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "acc", tokens.AccessToken)
}
