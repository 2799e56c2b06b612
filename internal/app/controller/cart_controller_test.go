package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGuestCartRepo struct {
	mu    sync.Mutex
	carts map[string][]model.CartLine
}

func newStubGuestCartRepo() *stubGuestCartRepo {
	return &stubGuestCartRepo{carts: make(map[string][]model.CartLine)}
}

func (r *stubGuestCartRepo) Load(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]model.CartLine, len(r.carts[sessionID]))
	copy(lines, r.carts[sessionID])
	return lines, nil
}

func (r *stubGuestCartRepo) Save(ctx context.Context, sessionID string, lines []model.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]model.CartLine, len(lines))
	copy(saved, lines)
	r.carts[sessionID] = saved
	return nil
}

func (r *stubGuestCartRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

type stubCatalog struct{}

func (stubCatalog) Snapshot(ctx context.Context, productID string) (*model.ProductSnapshot, error) {
	if productID != "juice-1" {
		return nil, service.ErrProductNotFound
	}
	return &model.ProductSnapshot{ProductID: "juice-1", Name: "Cold-Pressed Orange", Price: 500}, nil
}

type cartResponse struct {
	Lines []model.CartLine `json:"lines"`
	Count int              `json:"count"`
	Total float64          `json:"total"`
}

func setupCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, err := commerce.NewClient(commerce.Config{BaseURL: "http://backend.invalid"})
	require.NoError(t, err)

	cartService := service.NewCartService(newStubGuestCartRepo(), stubCatalog{}, client, nil)
	ctrl := NewCartController(cartService, nil)

	router := gin.New()
	cart := router.Group("/cart", middleware.GuestSession())
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("", ctrl.AddLine)
		cart.PUT("/:id", ctrl.UpdateLine)
		cart.DELETE("/:id", ctrl.RemoveLine)
		cart.DELETE("", ctrl.ClearCart)
	}
	return router
}

func doCartRequest(router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartEndpoints_GuestFlow(t *testing.T) {
	router := setupCartRouter(t)

	// First request mints the session cookie
	w := doCartRequest(router, "GET", "/cart", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	// Add a line
	w = doCartRequest(router, "POST", "/cart", gin.H{
		"product_id": "juice-1",
		"quantity":   2,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, 1000.0, resp.Total)
	lineID := resp.Lines[0].ID

	// Adding the same product again merges quantities
	w = doCartRequest(router, "POST", "/cart", gin.H{
		"product_id": "juice-1",
		"quantity":   1,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 3, resp.Lines[0].Quantity)

	// Quantity zero removes the line
	w = doCartRequest(router, "PUT", "/cart/"+lineID, gin.H{"quantity": 0}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Lines)
	assert.Zero(t, resp.Total)
}

func TestCartEndpoints_Validation(t *testing.T) {
	router := setupCartRouter(t)

	w := doCartRequest(router, "GET", "/cart", nil, nil)
	cookies := w.Result().Cookies()

	// Unknown product
	w = doCartRequest(router, "POST", "/cart", gin.H{
		"product_id": "nope",
		"quantity":   1,
	}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")

	// Zero quantity fails binding
	w = doCartRequest(router, "POST", "/cart", gin.H{
		"product_id": "juice-1",
		"quantity":   0,
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing body on update
	w = doCartRequest(router, "PUT", "/cart/some-line", nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartEndpoints_RemoveUnknownLineIsBenign(t *testing.T) {
	router := setupCartRouter(t)

	w := doCartRequest(router, "GET", "/cart", nil, nil)
	cookies := w.Result().Cookies()

	w = doCartRequest(router, "POST", "/cart", gin.H{
		"product_id": "juice-1",
		"quantity":   2,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doCartRequest(router, "DELETE", "/cart/no-such-line", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Lines, 1)
}
