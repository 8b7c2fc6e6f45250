package models

import (
	"time"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusDeleted  = "DELETED"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name"`
	Email             string    `json:"email" gorm:"unique"`
	Password          string    `json:"password,omitempty"`
	Status            string    `json:"status" gorm:"default:ACTIVE"`
	City              string    `json:"city"`
	PhoneNumber       string    `json:"phone_number"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	IsVerified        bool      `json:"is_verified"`
	OTP               string    `json:"otp,omitempty"`
	OTPExpiresAt      time.Time `json:"otp_expires_at,omitempty"`
	RoleID            uint      `json:"role_id"`
	Role              Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Rooms             []Room    `json:"rooms,omitempty" gorm:"foreignKey:CreatedByID"`
	Payments          []Payment `json:"payments,omitempty" gorm:"foreignKey:UserID"`
	LastLoginAt       time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
