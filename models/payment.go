package models

import (
	"time"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
	PaymentExpired = "expired"
)

// Payment represents a settlement transaction for a billed session. The
// amount always mirrors the session's total at the time the bill was opened.
type Payment struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	SessionID     string     `json:"session_id" gorm:"type:varchar(36);not null;index"`
	Session       Session    `json:"session" gorm:"foreignKey:SessionID"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaymentMethod string     `json:"payment_method" gorm:"type:varchar(20);default:'cash'"`
	ReferenceID   string     `json:"reference_id"`
	SnapToken     string     `json:"snap_token,omitempty"`  // Midtrans Snap token for QRIS
	PaymentURL    string     `json:"payment_url,omitempty"` // Redirect URL for the payment page
	PaymentTime   *time.Time `json:"payment_time,omitempty"`
	ExpiredAt     *time.Time `json:"expired_at,omitempty"`
	VerifiedBy    *uint      `json:"verified_by,omitempty"` // Staff who verified the payment
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
