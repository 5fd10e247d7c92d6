package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// SessionID is nil for walk-in orders that are not part of a group
	// session. An order belongs to at most one session.
	SessionID  *string          `gorm:"type:varchar(36);index" json:"session_id,omitempty"`
	CustomerID *string          `gorm:"type:varchar(36);index" json:"customer_id,omitempty"`
	Customer   *SessionCustomer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TableID    uint             `gorm:"not null;index" json:"table_id"`
	Table      Table            `gorm:"foreignKey:TableID" json:"table"`
	Status     string           `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// TotalAmount is in minor currency units.
	TotalAmount int64          `gorm:"not null;default:0" json:"total_amount"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	OrderItems  []OrderItem    `gorm:"foreignKey:OrderID" json:"order_items"`
}
