package models

import (
	"time"

	"gorm.io/gorm"
)

// Session statuses. Transitions only move forward: active -> billed -> cleared.
const (
	SessionActive  = "active"
	SessionBilled  = "billed"
	SessionCleared = "cleared"
)

// Session is a group-ordering context bound to one table. Diners join it
// with the session OTP and their orders are aggregated into TotalAmount.
type Session struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableID      uint           `gorm:"not null;index" json:"table_id"`
	Table        Table          `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	OTP          string         `gorm:"type:varchar(6);not null" json:"otp"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// TotalAmount is in minor currency units and is always derived from the
	// session's non-deleted orders, never edited directly.
	TotalAmount int64          `gorm:"not null;default:0" json:"total_amount"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Customers []SessionCustomer `gorm:"foreignKey:SessionID" json:"customers,omitempty"`
}
