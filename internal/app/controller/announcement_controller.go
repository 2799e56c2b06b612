package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementController(announcementService service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
	}
}

type AnnouncementRequest struct {
	Title     string     `json:"title" binding:"required"`
	Body      string     `json:"body"`
	BannerURL string     `json:"banner_url"`
	ImageURLs []string   `json:"image_urls"`
	StartsAt  time.Time  `json:"starts_at" binding:"required"`
	EndsAt    *time.Time `json:"ends_at"`
	Published bool       `json:"published"`
}

func (r AnnouncementRequest) toInput() service.AnnouncementInput {
	return service.AnnouncementInput{
		Title:     r.Title,
		Body:      r.Body,
		BannerURL: r.BannerURL,
		ImageURLs: r.ImageURLs,
		StartsAt:  r.StartsAt,
		EndsAt:    r.EndsAt,
		Published: r.Published,
	}
}

// ListLive returns the announcements currently visible to shoppers
// GET /api/v1/announcements
func (ctrl *AnnouncementController) ListLive(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	announcements, err := ctrl.announcementService.ListLive()
	if err != nil {
		log.Error("Failed to list live announcements", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"count":         len(announcements),
	})
}

// ListAll returns every announcement for the admin console
// GET /api/v1/admin/announcements
func (ctrl *AnnouncementController) ListAll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	announcements, err := ctrl.announcementService.ListAll()
	if err != nil {
		log.Error("Failed to list announcements", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"count":         len(announcements),
	})
}

// GetAnnouncement returns one announcement
// GET /api/v1/admin/announcements/:id
func (ctrl *AnnouncementController) GetAnnouncement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	announcement, err := ctrl.announcementService.GetAnnouncement(id)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			apperrors.NotFound(c, apperrors.AnnouncementNotFound, "Announcement not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

// CreateAnnouncement creates an announcement
// POST /api/v1/admin/announcements
func (ctrl *AnnouncementController) CreateAnnouncement(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid announcement payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	announcement, err := ctrl.announcementService.CreateAnnouncement(req.toInput())
	if err != nil {
		log.Error("Failed to create announcement", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"announcement": announcement})
}

// UpdateAnnouncement updates an announcement
// PUT /api/v1/admin/announcements/:id
func (ctrl *AnnouncementController) UpdateAnnouncement(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	announcement, err := ctrl.announcementService.UpdateAnnouncement(id, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			apperrors.NotFound(c, apperrors.AnnouncementNotFound, "Announcement not found")
			return
		}
		log.Error("Failed to update announcement", err, map[string]interface{}{
			"announcement_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcement": announcement})
}

// DeleteAnnouncement deletes an announcement
// DELETE /api/v1/admin/announcements/:id
func (ctrl *AnnouncementController) DeleteAnnouncement(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.announcementService.DeleteAnnouncement(id); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			apperrors.NotFound(c, apperrors.AnnouncementNotFound, "Announcement not found")
			return
		}
		log.Error("Failed to delete announcement", err, map[string]interface{}{
			"announcement_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
