package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DeliveryChargeController struct {
	deliveryService service.DeliveryService
}

func NewDeliveryChargeController(deliveryService service.DeliveryService) *DeliveryChargeController {
	return &DeliveryChargeController{
		deliveryService: deliveryService,
	}
}

type DeliveryChargeRequest struct {
	Region         string   `json:"region" binding:"required"`
	Amount         float64  `json:"amount" binding:"min=0"`
	FreeOverAmount *float64 `json:"free_over_amount"`
}

func (r DeliveryChargeRequest) toInput() service.DeliveryChargeInput {
	return service.DeliveryChargeInput{
		Region:         r.Region,
		Amount:         r.Amount,
		FreeOverAmount: r.FreeOverAmount,
	}
}

// ListCharges returns all delivery charges
// GET /api/v1/admin/delivery-charges
func (ctrl *DeliveryChargeController) ListCharges(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	charges, err := ctrl.deliveryService.ListCharges()
	if err != nil {
		log.Error("Failed to list delivery charges", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivery_charges": charges,
		"count":            len(charges),
	})
}

// GetCharge returns one delivery charge
// GET /api/v1/admin/delivery-charges/:id
func (ctrl *DeliveryChargeController) GetCharge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	charge, err := ctrl.deliveryService.GetCharge(id)
	if err != nil {
		if errors.Is(err, service.ErrDeliveryRegionNotFound) {
			apperrors.NotFound(c, apperrors.DeliveryRegionNotFound, "Delivery region not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_charge": charge})
}

// CreateCharge creates a delivery charge
// POST /api/v1/admin/delivery-charges
func (ctrl *DeliveryChargeController) CreateCharge(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeliveryChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	charge, err := ctrl.deliveryService.CreateCharge(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrDeliveryRegionExists) {
			apperrors.Conflict(c, apperrors.DeliveryRegionExists, "A charge for this region already exists")
			return
		}
		log.Error("Failed to create delivery charge", err, map[string]interface{}{
			"region": req.Region,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"delivery_charge": charge})
}

// UpdateCharge updates a delivery charge
// PUT /api/v1/admin/delivery-charges/:id
func (ctrl *DeliveryChargeController) UpdateCharge(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DeliveryChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	charge, err := ctrl.deliveryService.UpdateCharge(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliveryRegionNotFound):
			apperrors.NotFound(c, apperrors.DeliveryRegionNotFound, "Delivery region not found")
		case errors.Is(err, service.ErrDeliveryRegionExists):
			apperrors.Conflict(c, apperrors.DeliveryRegionExists, "A charge for this region already exists")
		default:
			log.Error("Failed to update delivery charge", err, map[string]interface{}{
				"delivery_charge_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_charge": charge})
}

// DeleteCharge deletes a delivery charge
// DELETE /api/v1/admin/delivery-charges/:id
func (ctrl *DeliveryChargeController) DeleteCharge(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.deliveryService.DeleteCharge(id); err != nil {
		if errors.Is(err, service.ErrDeliveryRegionNotFound) {
			apperrors.NotFound(c, apperrors.DeliveryRegionNotFound, "Delivery region not found")
			return
		}
		log.Error("Failed to delete delivery charge", err, map[string]interface{}{
			"delivery_charge_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Delivery charge deleted successfully"})
}

// QuoteCharge returns the delivery fee for a region and subtotal
// GET /api/v1/delivery-charges/quote?region=seoul&subtotal=12000
func (ctrl *DeliveryChargeController) QuoteCharge(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "region is required")
		return
	}

	subtotal, err := strconv.ParseFloat(c.DefaultQuery("subtotal", "0"), 64)
	if err != nil || subtotal < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "subtotal must be a non-negative number")
		return
	}

	fee := ctrl.deliveryService.QuoteFor(region, subtotal)
	c.JSON(http.StatusOK, gin.H{
		"region":       region,
		"subtotal":     subtotal,
		"delivery_fee": fee,
	})
}
