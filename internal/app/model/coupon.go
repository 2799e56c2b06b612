package model

import (
	"time"

	"gorm.io/gorm"
)

type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

type Coupon struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`
	Kind           CouponKind     `gorm:"type:varchar(20);not null" json:"kind"`
	Value          float64        `gorm:"not null" json:"value"`
	MaxDiscount    *float64       `json:"max_discount,omitempty"`
	MinOrderAmount float64        `gorm:"default:0" json:"min_order_amount"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	Active         bool           `gorm:"default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// Expired reports whether the coupon's expiry has passed at the given time.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
