package models

import "time"

// UserPermission is a per-user override of role-derived permissions.
// At most one row exists per (user, permission) pair; granting and
// revoking the same pair flips Granted on the same row.
type UserPermission struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"uniqueIndex:idx_user_permission;not null"`
	PermissionID uint       `json:"permission_id" gorm:"uniqueIndex:idx_user_permission;not null"`
	Granted      bool       `json:"granted"`
	GrantedBy    uint       `json:"granted_by"`
	Reason       string     `json:"reason"`
	ExpiresAt    *time.Time `json:"expires_at"` // nil = never expires
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Permission   Permission `json:"permission,omitempty" gorm:"foreignKey:PermissionID"`
}
