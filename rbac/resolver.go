package rbac

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/connectx-id/connectx-backend/models"
)

// Source tells where an effective permission came from.
type Source string

const (
	SourceRole Source = "role"
	SourceUser Source = "user"
)

// EffectivePermission is one entry of a user's resolved permission set.
type EffectivePermission struct {
	Code   string `json:"code"`
	Source Source `json:"source"`
}

// Service resolves effective permissions and runs role/permission
// administration. It holds no per-user state; every resolution reads the
// database fresh so admin changes take effect on the next request.
type Service struct {
	db *gorm.DB

	// Now is the clock used for override expiry checks. Tests override it.
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, Now: time.Now}
}

// ResolveEffectivePermissions computes the permission codes currently in
// force for a user: the role's permissions seeded first, then valid
// per-user overrides applied on top. A granted override wins whether or
// not the role already has the code; a revoking override removes the code
// even when the role grants it. Overrides at or past their expiry are
// ignored entirely.
//
// An unknown user resolves to an empty set, not an error, so callers fail
// closed.
func (s *Service) ResolveEffectivePermissions(userID uint) ([]EffectivePermission, error) {
	now := s.Now()

	var user models.User
	err := s.db.Preload("Role.Permissions").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []EffectivePermission{}, nil
		}
		return nil, err
	}

	merged := make(map[string]Source)
	for _, p := range user.Role.Permissions {
		merged[p.Code] = SourceRole
	}

	var overrides []models.UserPermission
	err = s.db.Preload("Permission").
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}

	for _, o := range overrides {
		if o.Granted {
			merged[o.Permission.Code] = SourceUser
		} else {
			delete(merged, o.Permission.Code)
		}
	}

	result := make([]EffectivePermission, 0, len(merged))
	for code, source := range merged {
		result = append(result, EffectivePermission{Code: code, Source: source})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// EffectiveCodes returns the resolved permission codes as a set for
// membership checks.
func (s *Service) EffectiveCodes(userID uint) (map[string]struct{}, error) {
	perms, err := s.ResolveEffectivePermissions(userID)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		codes[p.Code] = struct{}{}
	}
	return codes, nil
}

// HasPermission reports whether a single permission code is in force.
func (s *Service) HasPermission(userID uint, code string) (bool, error) {
	codes, err := s.EffectiveCodes(userID)
	if err != nil {
		return false, err
	}
	_, ok := codes[code]
	return ok, nil
}
