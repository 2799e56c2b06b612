package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
)

// Client talks to the commerce backend's REST API. It is constructed once
// at startup and injected into the services that need it.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new commerce backend client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchCart returns the caller's server-side cart with embedded product snapshots
func (c *Client) FetchCart(ctx context.Context, token string) ([]model.CartLine, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	var env cartEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart response: %w", err)
	}
	return env.Lines, nil
}

// AddCartLine appends or merges a line into the caller's server-side cart
func (c *Client) AddCartLine(ctx context.Context, token string, req AddLineRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPost, "/cart", token, req); err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}

// UpdateCartLine overwrites a line's quantity
func (c *Client) UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error {
	path := "/cart/" + url.PathEscape(lineID)
	if _, err := c.doRequest(ctx, http.MethodPut, path, token, UpdateLineRequest{Quantity: quantity}); err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	return nil
}

// RemoveCartLine deletes a line from the caller's server-side cart
func (c *Client) RemoveCartLine(ctx context.Context, token, lineID string) error {
	path := "/cart/" + url.PathEscape(lineID)
	if _, err := c.doRequest(ctx, http.MethodDelete, path, token, nil); err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

// ClearCart empties the caller's server-side cart
func (c *Client) ClearCart(ctx context.Context, token string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/cart", token, nil); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetProduct fetches a single product snapshot
func (c *Client) GetProduct(ctx context.Context, productID string) (*model.ProductSnapshot, error) {
	path := "/products/" + url.PathEscape(productID)
	body, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	var env productEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product response: %w", err)
	}
	return &env.Product, nil
}

// ListProducts fetches a page of the catalog
func (c *Client) ListProducts(ctx context.Context, req ListProductsRequest) ([]model.ProductSnapshot, int64, error) {
	q := url.Values{}
	if req.Category != "" {
		q.Set("category", req.Category)
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}

	path := "/products"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	body, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var env productListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal product list response: %w", err)
	}
	return env.Products, env.Total, nil
}

// ListOrders fetches a page of orders for the admin console
func (c *Client) ListOrders(ctx context.Context, token string, req ListOrdersRequest) ([]Order, int64, error) {
	q := url.Values{}
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}

	path := "/orders"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	body, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	var env orderListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal order list response: %w", err)
	}
	return env.Orders, env.Total, nil
}

// GetOrder fetches one order
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	path := "/orders/" + url.PathEscape(orderID)
	body, err := c.doRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	return &env.Order, nil
}

// UpdateOrderStatus moves an order to a new status
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	payload := map[string]string{"status": status}
	if _, err := c.doRequest(ctx, http.MethodPut, path, token, payload); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// Login exchanges credentials for a token pair issued by the backend
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	var tokens TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	return &tokens, nil
}

// Register creates a shopper account and returns its first token pair
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	var tokens TokenPair
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal register response: %w", err)
	}
	return &tokens, nil
}

// doRequest performs an HTTP request against the commerce backend
func (c *Client) doRequest(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.config.ServiceKey != "" {
		req.Header.Set("X-Service-Key", c.config.ServiceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	var errResp ErrorResponse
	_ = json.Unmarshal(body, &errResp)
	detail := errResp.Message
	if detail == "" {
		detail = string(body)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, detail)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackendFailure, resp.StatusCode, detail)
	}
}
