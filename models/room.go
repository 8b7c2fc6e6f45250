package models

import (
	"time"

	"gorm.io/gorm"
)

// Room is an event listing.
type Room struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug" gorm:"unique"`
	Description string         `json:"description"`
	Category    string         `json:"category" gorm:"index"`
	Country     string         `json:"country" gorm:"index"`
	City        string         `json:"city"`
	Address     string         `json:"address"`
	Datetime    time.Time      `json:"datetime"`
	Price       int64          `json:"price"` // smallest currency unit, 0 = free
	Capacity    int            `json:"capacity"`
	ImageURL    string         `json:"image_url"`
	IsHighlight bool           `json:"is_highlight"`
	CreatedByID uint           `json:"created_by_id"`
	CreatedBy   User           `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
