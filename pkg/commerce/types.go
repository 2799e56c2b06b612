package commerce

import (
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
)

// TokenPair is the token set issued by the backend on login/register
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginRequest carries shopper credentials for the backend auth endpoint
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a shopper account on the backend
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// AddLineRequest appends or merges a line into the caller's server-side cart
type AddLineRequest struct {
	ProductID string                  `json:"product_id"`
	Quantity  int                     `json:"quantity"`
	Variant   *model.VariantSelection `json:"variant,omitempty"`
}

// UpdateLineRequest overwrites a line's quantity
type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

// ListProductsRequest filters the catalog listing
type ListProductsRequest struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListOrdersRequest filters the admin order listing
type ListOrdersRequest struct {
	Status string
	Page   int
	Limit  int
}

// OrderItem is one purchased line inside a backend order
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantName string  `json:"variant_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is the backend's order record as exposed to the admin console
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Response envelopes used by the backend

type cartEnvelope struct {
	Lines []model.CartLine `json:"lines"`
}

type productEnvelope struct {
	Product model.ProductSnapshot `json:"product"`
}

type productListEnvelope struct {
	Products []model.ProductSnapshot `json:"products"`
	Total    int64                   `json:"total"`
}

type orderEnvelope struct {
	Order Order `json:"order"`
}

type orderListEnvelope struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
}

// ErrorResponse is the backend's error body shape
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
