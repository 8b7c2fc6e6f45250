package models

import (
	"time"

	"gorm.io/gorm"
)

type Permission struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Code        string         `json:"code" gorm:"unique"` // e.g., "rooms:create"
	Resource    string         `json:"resource"`           // e.g., "rooms", "users", etc.
	Action      string         `json:"action"`             // e.g., "create", "view", "update", "delete"
	Description string         `json:"description"`
	Category    string         `json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	Roles       []Role         `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
}
