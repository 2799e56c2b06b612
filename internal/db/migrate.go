package db

import (
	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
)

// Migrate runs database migrations for the storefront-owned tables.
// Products, authenticated carts and orders live in the commerce backend
// and are never migrated here.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Coupon{},
		&model.DeliveryCharge{},
		&model.Announcement{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
