package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionCustomer is a roster entry: one person who joined a session with
// its OTP. It is created once per successful join and never updated. The
// roster entry is the customer identity for the life of the session; orders
// reference it through Order.CustomerID.
type SessionCustomer struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID string         `gorm:"type:varchar(36);not null;index" json:"session_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(32);not null" json:"phone"`
	JoinedAt  time.Time      `gorm:"not null" json:"joined_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
