package repository

import (
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *model.Announcement) error
	FindAll() ([]model.Announcement, error)
	FindLive(now time.Time) ([]model.Announcement, error)
	FindByID(id uint) (*model.Announcement, error)
	Update(announcement *model.Announcement) error
	Delete(id uint) error
	UnpublishEnded(now time.Time) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *model.Announcement) error {
	if err := r.db.Create(announcement).Error; err != nil {
		logger.Error("Failed to create announcement in database", err, map[string]interface{}{
			"title": announcement.Title,
		})
		return err
	}

	logger.Debug("Announcement created in database", map[string]interface{}{
		"announcement_id": announcement.ID,
	})
	return nil
}

func (r *announcementRepository) FindAll() ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := r.db.Order("starts_at DESC").Find(&announcements).Error; err != nil {
		logger.Error("Failed to list announcements in database", err)
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) FindLive(now time.Time) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.
		Where("published = ? AND starts_at <= ?", true, now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Order("starts_at DESC").
		Find(&announcements).Error
	if err != nil {
		logger.Error("Failed to list live announcements in database", err)
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) FindByID(id uint) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := r.db.First(&announcement, id).Error; err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) Update(announcement *model.Announcement) error {
	if err := r.db.Save(announcement).Error; err != nil {
		logger.Error("Failed to update announcement in database", err, map[string]interface{}{
			"announcement_id": announcement.ID,
		})
		return err
	}
	return nil
}

func (r *announcementRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Announcement{}, id).Error; err != nil {
		logger.Error("Failed to delete announcement from database", err, map[string]interface{}{
			"announcement_id": id,
		})
		return err
	}
	return nil
}

// UnpublishEnded flips Published off for announcements past their end time.
// Used by the housekeeping scheduler.
func (r *announcementRepository) UnpublishEnded(now time.Time) (int64, error) {
	result := r.db.Model(&model.Announcement{}).
		Where("published = ? AND ends_at IS NOT NULL AND ends_at < ?", true, now).
		Update("published", false)
	if result.Error != nil {
		logger.Error("Failed to unpublish ended announcements", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
