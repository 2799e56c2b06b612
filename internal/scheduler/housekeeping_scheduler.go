package scheduler

import (
	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// HousekeepingScheduler retires expired coupons and ended announcements
// so shoppers never see stale promotions.
type HousekeepingScheduler struct {
	cron                *cron.Cron
	couponService       service.CouponService
	announcementService service.AnnouncementService
}

func NewHousekeepingScheduler(
	couponService service.CouponService,
	announcementService service.AnnouncementService,
) *HousekeepingScheduler {
	return &HousekeepingScheduler{
		cron:                cron.New(),
		couponService:       couponService,
		announcementService: announcementService,
	}
}

// Start registers the hourly sweep and starts the cron loop
func (s *HousekeepingScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		logger.Info("Starting promotion housekeeping sweep", nil)

		coupons, err := s.couponService.DeactivateExpired()
		if err != nil {
			logger.Error("Failed to deactivate expired coupons", err)
		}

		announcements, err := s.announcementService.UnpublishEnded()
		if err != nil {
			logger.Error("Failed to unpublish ended announcements", err)
		}

		logger.Info("Promotion housekeeping sweep finished", map[string]interface{}{
			"coupons_deactivated":       coupons,
			"announcements_unpublished": announcements,
		})
	})

	if err != nil {
		logger.Error("Failed to add housekeeping cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Housekeeping scheduler started (hourly)", nil)

	return nil
}

// Stop halts the cron loop
func (s *HousekeepingScheduler) Stop() {
	logger.Info("Stopping housekeeping scheduler...", nil)
	s.cron.Stop()
	logger.Info("Housekeeping scheduler stopped", nil)
}
