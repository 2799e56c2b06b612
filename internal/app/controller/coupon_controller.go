package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{
		couponService: couponService,
	}
}

type CouponRequest struct {
	Code           string     `json:"code" binding:"required"`
	Kind           string     `json:"kind" binding:"required,oneof=percentage fixed"`
	Value          float64    `json:"value" binding:"required,gt=0"`
	MaxDiscount    *float64   `json:"max_discount"`
	MinOrderAmount float64    `json:"min_order_amount"`
	ExpiresAt      *time.Time `json:"expires_at"`
	Active         bool       `json:"active"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:           r.Code,
		Kind:           model.CouponKind(r.Kind),
		Value:          r.Value,
		MaxDiscount:    r.MaxDiscount,
		MinOrderAmount: r.MinOrderAmount,
		ExpiresAt:      r.ExpiresAt,
		Active:         r.Active,
	}
}

// parseIDParam reads a numeric :id path parameter
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

// ListCoupons returns all coupons for the admin console
// GET /api/v1/admin/coupons
func (ctrl *CouponController) ListCoupons(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	coupons, err := ctrl.couponService.ListCoupons()
	if err != nil {
		log.Error("Failed to list coupons", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

// GetCoupon returns one coupon
// GET /api/v1/admin/coupons/:id
func (ctrl *CouponController) GetCoupon(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	coupon, err := ctrl.couponService.GetCoupon(id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// CreateCoupon creates a coupon
// POST /api/v1/admin/coupons
func (ctrl *CouponController) CreateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid coupon payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	coupon, err := ctrl.couponService.CreateCoupon(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeExists) {
			apperrors.Conflict(c, apperrors.CouponCodeExists, "A coupon with this code already exists")
			return
		}
		log.Error("Failed to create coupon", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// UpdateCoupon updates a coupon
// PUT /api/v1/admin/coupons/:id
func (ctrl *CouponController) UpdateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	coupon, err := ctrl.couponService.UpdateCoupon(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
		case errors.Is(err, service.ErrCouponCodeExists):
			apperrors.Conflict(c, apperrors.CouponCodeExists, "A coupon with this code already exists")
		default:
			log.Error("Failed to update coupon", err, map[string]interface{}{
				"coupon_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// DeleteCoupon deletes a coupon
// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.couponService.DeleteCoupon(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		log.Error("Failed to delete coupon", err, map[string]interface{}{
			"coupon_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}

// RedeemCoupon validates a coupon code against a subtotal for shoppers
// POST /api/v1/coupons/redeem
func (ctrl *CouponController) RedeemCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req struct {
		Code     string  `json:"code" binding:"required"`
		Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	deduction, err := ctrl.couponService.Redeem(req.Code, req.Subtotal)
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
			log.Error("Failed to redeem coupon", err, map[string]interface{}{
				"code": req.Code,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":      req.Code,
		"deduction": deduction,
	})
}
