package controller

import (
	"errors"
	"net/http"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
}

func NewCartController(cartService service.CartService, checkoutService service.CheckoutService) *CartController {
	return &CartController{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

type VariantRequest struct {
	Name  string   `json:"name" binding:"required"`
	Price *float64 `json:"price"`
}

type AddLineRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Variant   *VariantRequest `json:"variant"`
}

type UpdateLineRequest struct {
	// Pointer so an explicit zero survives binding - zero removes the line
	Quantity *int `json:"quantity" binding:"required"`
}

type QuoteRequest struct {
	CouponCode string `json:"coupon_code"`
	Region     string `json:"region"`
}

// identityFrom assembles the cart identity for this request. Set by the
// optional-auth and guest-session middleware upstream.
func identityFrom(c *gin.Context) (service.CartIdentity, bool) {
	identity := service.CartIdentity{}

	if token, ok := middleware.GetAuthToken(c); ok {
		identity.Token = token
		identity.UserID, _ = middleware.GetUserID(c)
		return identity, true
	}

	sessionID, ok := middleware.GetSessionID(c)
	if !ok || sessionID == "" {
		return identity, false
	}
	identity.SessionID = sessionID
	return identity, true
}

func (ctrl *CartController) storeFrom(c *gin.Context) (service.CartStore, bool) {
	identity, ok := identityFrom(c)
	if !ok {
		log := middleware.GetLoggerFromContext(c)
		log.Warn("Cart request without session or token", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.BadRequest(c, apperrors.CartSessionMissing, "No cart session found")
		return nil, false
	}
	return ctrl.cartService.StoreFor(identity), true
}

func respondCart(c *gin.Context, status int, lines []model.CartLine) {
	c.JSON(status, gin.H{
		"lines": lines,
		"count": len(lines),
		"total": model.CartTotal(lines),
	})
}

// respondCartError maps cart store failures onto the error contract.
func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be a positive integer")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrCartLineNotFound):
		apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart line not found")
	case errors.Is(err, commerce.ErrUnauthorized):
		apperrors.Unauthorized(c, "Your session has expired. Please log in again")
	case errors.Is(err, service.ErrCartUnavailable):
		apperrors.BadGateway(c, "")
	default:
		apperrors.InternalError(c, "")
	}
}

// GetCart returns the caller's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	lines, err := store.Lines(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch cart", err, nil)
		respondCartError(c, err)
		return
	}

	respondCart(c, http.StatusOK, lines)
}

// AddLine adds a product (optionally with a variant) to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input := service.AddLineInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if req.Variant != nil {
		input.Variant = &model.VariantSelection{
			Name:  req.Variant.Name,
			Price: req.Variant.Price,
		}
	}

	lines, err := store.AddLine(c.Request.Context(), input)
	if err != nil {
		log.Warn("Failed to add cart line", map[string]interface{}{
			"product_id": req.ProductID,
			"quantity":   req.Quantity,
			"error":      err.Error(),
		})
		respondCartError(c, err)
		return
	}

	log.Info("Cart line added", map[string]interface{}{
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
		"lines":      len(lines),
	})

	respondCart(c, http.StatusCreated, lines)
}

// UpdateLine overwrites a line's quantity; zero removes the line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	lineID := c.Param("id")
	if lineID == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart line ID")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"line_id": lineID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	lines, err := store.SetQuantity(c.Request.Context(), lineID, *req.Quantity)
	if err != nil {
		log.Warn("Failed to update cart line", map[string]interface{}{
			"line_id":  lineID,
			"quantity": *req.Quantity,
			"error":    err.Error(),
		})
		respondCartError(c, err)
		return
	}

	log.Info("Cart line updated", map[string]interface{}{
		"line_id":  lineID,
		"quantity": *req.Quantity,
	})

	respondCart(c, http.StatusOK, lines)
}

// RemoveLine deletes a line from the cart
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	lineID := c.Param("id")
	lines, err := store.RemoveLine(c.Request.Context(), lineID)
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"line_id": lineID,
		})
		respondCartError(c, err)
		return
	}

	log.Info("Cart line removed", map[string]interface{}{
		"line_id": lineID,
	})

	respondCart(c, http.StatusOK, lines)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	lines, err := store.Clear(c.Request.Context())
	if err != nil {
		log.Error("Failed to clear cart", err, nil)
		respondCartError(c, err)
		return
	}

	log.Info("Cart cleared", nil)

	respondCart(c, http.StatusOK, lines)
}

// Quote prices the cart with an optional coupon and delivery region
// POST /api/v1/cart/quote
func (ctrl *CartController) Quote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := ctrl.storeFrom(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quote, err := ctrl.checkoutService.QuoteCart(c.Request.Context(), store, req.CouponCode, req.Region)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
		case errors.Is(err, service.ErrCouponExpired):
			apperrors.BadRequest(c, apperrors.CouponExpired, "This coupon has expired")
		case errors.Is(err, service.ErrCouponInactive):
			apperrors.BadRequest(c, apperrors.CouponInactive, "This coupon is not active")
		case errors.Is(err, service.ErrCouponMinimumNotMet):
			apperrors.BadRequest(c, apperrors.CouponMinimumNotMet, "Order subtotal is below the coupon minimum")
		default:
			log.Error("Failed to quote cart", err, map[string]interface{}{
				"coupon_code": req.CouponCode,
				"region":      req.Region,
			})
			respondCartError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
