package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Announcement struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	BannerURL string         `json:"banner_url"`
	ImageURLs pq.StringArray `gorm:"type:text[]" json:"image_urls,omitempty"`
	StartsAt  time.Time      `json:"starts_at"`
	EndsAt    *time.Time     `json:"ends_at,omitempty"`
	Published bool           `gorm:"default:false" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// Live reports whether the announcement should be shown to shoppers now.
func (a Announcement) Live(now time.Time) bool {
	if !a.Published || a.StartsAt.After(now) {
		return false
	}
	return a.EndsAt == nil || a.EndsAt.After(now)
}
