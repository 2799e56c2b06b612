package service

import (
	"errors"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/model"
	"github.com/fruitfulhq/storefront-backend/internal/app/repository"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementInput carries the admin console's create/update payload.
type AnnouncementInput struct {
	Title     string
	Body      string
	BannerURL string
	ImageURLs []string
	StartsAt  time.Time
	EndsAt    *time.Time
	Published bool
}

type AnnouncementService interface {
	// ListLive returns the announcements shoppers should currently see.
	ListLive() ([]model.Announcement, error)
	// ListAll returns everything for the admin console.
	ListAll() ([]model.Announcement, error)
	GetAnnouncement(id uint) (*model.Announcement, error)
	CreateAnnouncement(input AnnouncementInput) (*model.Announcement, error)
	UpdateAnnouncement(id uint, input AnnouncementInput) (*model.Announcement, error)
	DeleteAnnouncement(id uint) error
	UnpublishEnded() (int64, error)
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcementRepo: announcementRepo}
}

func (s *announcementService) ListLive() ([]model.Announcement, error) {
	return s.announcementRepo.FindLive(time.Now())
}

func (s *announcementService) ListAll() ([]model.Announcement, error) {
	return s.announcementRepo.FindAll()
}

func (s *announcementService) GetAnnouncement(id uint) (*model.Announcement, error) {
	announcement, err := s.announcementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) CreateAnnouncement(input AnnouncementInput) (*model.Announcement, error) {
	announcement := &model.Announcement{
		Title:     input.Title,
		Body:      input.Body,
		BannerURL: input.BannerURL,
		ImageURLs: pq.StringArray(input.ImageURLs),
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		Published: input.Published,
	}

	if err := s.announcementRepo.Create(announcement); err != nil {
		return nil, err
	}

	logger.Info("Announcement created", map[string]interface{}{
		"announcement_id": announcement.ID,
		"title":           announcement.Title,
		"published":       announcement.Published,
	})
	return announcement, nil
}

func (s *announcementService) UpdateAnnouncement(id uint, input AnnouncementInput) (*model.Announcement, error) {
	announcement, err := s.GetAnnouncement(id)
	if err != nil {
		return nil, err
	}

	announcement.Title = input.Title
	announcement.Body = input.Body
	announcement.BannerURL = input.BannerURL
	announcement.ImageURLs = pq.StringArray(input.ImageURLs)
	announcement.StartsAt = input.StartsAt
	announcement.EndsAt = input.EndsAt
	announcement.Published = input.Published

	if err := s.announcementRepo.Update(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) DeleteAnnouncement(id uint) error {
	if _, err := s.GetAnnouncement(id); err != nil {
		return err
	}
	return s.announcementRepo.Delete(id)
}

func (s *announcementService) UnpublishEnded() (int64, error) {
	count, err := s.announcementRepo.UnpublishEnded(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Unpublished ended announcements", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
