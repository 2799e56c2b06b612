package model

import (
	"time"

	"gorm.io/gorm"
)

type DeliveryCharge struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Region         string         `gorm:"uniqueIndex;not null" json:"region"`
	Amount         float64        `gorm:"not null" json:"amount"`
	FreeOverAmount *float64       `json:"free_over_amount,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DeliveryCharge) TableName() string {
	return "delivery_charges"
}

// ChargeFor returns the delivery fee for an order subtotal, zero when the
// free-shipping threshold is met.
func (d DeliveryCharge) ChargeFor(subtotal float64) float64 {
	if d.FreeOverAmount != nil && subtotal >= *d.FreeOverAmount {
		return 0
	}
	return d.Amount
}
