package models

import (
	"time"

	"gorm.io/gorm"
)

type Menu struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RestaurantID uint         `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   uint         `gorm:"not null" json:"category_id"`
	Category     MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	// Price is in minor currency units.
	Price       int64          `gorm:"not null" json:"price"`
	Stock       int            `json:"stock"`
	Description string         `gorm:"type:text" json:"description"`
	ImageUrl    *string        `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	Available   bool           `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
