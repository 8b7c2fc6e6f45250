package rbac

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/connectx-id/connectx-backend/models"
)

// RoleUpdate is a partial update; nil fields are left unchanged.
type RoleUpdate struct {
	Name        *string
	Description *string
	Priority    *int
}

// PermissionRef identifies a permission by ID or by code. Exactly one
// field must be set.
type PermissionRef struct {
	ID   uint
	Code string
}

// PermissionFilter narrows catalog listings.
type PermissionFilter struct {
	Category string
	Resource string
}

// ListRoles returns all roles with their permissions, highest priority first.
func (s *Service) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	err := s.db.Preload("Permissions").Order("priority DESC").Find(&roles).Error
	return roles, err
}

// GetRole fetches one role with its permissions.
func (s *Service) GetRole(id uint) (models.Role, error) {
	var role models.Role
	if err := s.db.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Role{}, ErrNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role with zero permissions. Role names are
// unique, matched case-sensitively.
func (s *Service) CreateRole(name, description string, priority int) (models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Role{}, fmt.Errorf("%w: role name is required", ErrValidation)
	}

	var existing models.Role
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return models.Role{}, fmt.Errorf("%w: role name already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Role{}, err
	}

	role := models.Role{Name: name, Description: description, Priority: priority}
	if err := s.db.Create(&role).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// UpdateRole applies a partial update. Renames re-check uniqueness against
// all other roles.
func (s *Service) UpdateRole(id uint, patch RoleUpdate) (models.Role, error) {
	role, err := s.GetRole(id)
	if err != nil {
		return models.Role{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Role{}, fmt.Errorf("%w: role name is required", ErrValidation)
		}
		if name != role.Name {
			var other models.Role
			if err := s.db.Where("name = ? AND id <> ?", name, id).First(&other).Error; err == nil {
				return models.Role{}, fmt.Errorf("%w: role name already exists", ErrConflict)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Role{}, err
			}
		}
		role.Name = name
	}
	if patch.Description != nil {
		role.Description = *patch.Description
	}
	if patch.Priority != nil {
		role.Priority = *patch.Priority
	}

	if err := s.db.Save(&role).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role. System roles are protected, and a role still
// assigned to users cannot be deleted: silently stripping those users down
// to an empty permission set is a privilege change nobody asked for.
func (s *Service) DeleteRole(id uint) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRole
	}

	var assigned int64
	if err := s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&assigned).Error; err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: role is assigned to %d user(s)", ErrConflict, assigned)
	}

	return s.db.Delete(&models.Role{}, id).Error
}

// AssignRoleToUser replaces the user's single role assignment.
func (s *Service) AssignRoleToUser(userID, roleID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if _, err := s.GetRole(roleID); err != nil {
		return err
	}
	return s.db.Model(&user).Update("role_id", roleID).Error
}

// AssignPermission links a permission to a role. Assigning an already
// linked permission is a no-op, not an error.
func (s *Service) AssignPermission(roleID uint, ref PermissionRef) error {
	role, err := s.GetRole(roleID)
	if err != nil {
		return err
	}
	perm, err := s.resolvePermission(ref)
	if err != nil {
		return err
	}
	return s.db.Model(&role).Association("Permissions").Append(&perm)
}

// RevokePermission removes a role-permission link. Removing a link that
// does not exist is a no-op.
func (s *Service) RevokePermission(roleID uint, ref PermissionRef) error {
	role, err := s.GetRole(roleID)
	if err != nil {
		return err
	}
	perm, err := s.resolvePermission(ref)
	if err != nil {
		return err
	}
	return s.db.Model(&role).Association("Permissions").Delete(&perm)
}

func (s *Service) resolvePermission(ref PermissionRef) (models.Permission, error) {
	if (ref.ID == 0) == (ref.Code == "") {
		return models.Permission{}, fmt.Errorf("%w: exactly one of permission id or code is required", ErrValidation)
	}

	var perm models.Permission
	var err error
	if ref.ID != 0 {
		err = s.db.First(&perm, ref.ID).Error
	} else {
		err = s.db.Where("code = ?", ref.Code).First(&perm).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Permission{}, ErrNotFound
		}
		return models.Permission{}, err
	}
	return perm, nil
}

// GrantUserPermission upserts a granted=true override for the pair. The
// ON CONFLICT upsert keeps concurrent grant/revoke calls from ever
// producing two rows for one (user, permission) pair.
func (s *Service) GrantUserPermission(userID, permissionID, grantedBy uint, reason string, expiresAt *time.Time) error {
	return s.upsertOverride(userID, permissionID, true, grantedBy, reason, expiresAt)
}

// RevokeUserPermission upserts a granted=false override for the pair.
func (s *Service) RevokeUserPermission(userID, permissionID, grantedBy uint, reason string) error {
	return s.upsertOverride(userID, permissionID, false, grantedBy, reason, nil)
}

func (s *Service) upsertOverride(userID, permissionID uint, granted bool, grantedBy uint, reason string, expiresAt *time.Time) error {
	if _, err := s.resolvePermission(PermissionRef{ID: permissionID}); err != nil {
		return err
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	override := models.UserPermission{
		UserID:       userID,
		PermissionID: permissionID,
		Granted:      granted,
		GrantedBy:    grantedBy,
		Reason:       reason,
		ExpiresAt:    expiresAt,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "permission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"granted", "granted_by", "reason", "expires_at", "updated_at",
		}),
	}).Create(&override).Error
}

// RemoveUserPermission hard-deletes the override row, reverting the pair
// to pure role-derived resolution.
func (s *Service) RemoveUserPermission(userID, permissionID uint) error {
	return s.db.Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&models.UserPermission{}).Error
}

// ListUserOverrides returns every override row for a user, expired ones
// included, newest first. This is the admin view; resolution applies its
// own validity filter.
func (s *Service) ListUserOverrides(userID uint) ([]models.UserPermission, error) {
	var overrides []models.UserPermission
	err := s.db.Preload("Permission").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&overrides).Error
	return overrides, err
}

// ListPermissions returns the catalog, optionally filtered.
func (s *Service) ListPermissions(filter PermissionFilter) ([]models.Permission, error) {
	q := s.db.Order("resource ASC, action ASC")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Resource != "" {
		q = q.Where("resource = ?", filter.Resource)
	}
	var perms []models.Permission
	err := q.Find(&perms).Error
	return perms, err
}

// CreatePermission adds a catalog entry. The code is derived from
// resource and action and must be unique.
func (s *Service) CreatePermission(resource, action, description, category string) (models.Permission, error) {
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if resource == "" || action == "" {
		return models.Permission{}, fmt.Errorf("%w: resource and action are required", ErrValidation)
	}
	code := resource + ":" + action

	var existing models.Permission
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return models.Permission{}, fmt.Errorf("%w: permission code already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Permission{}, err
	}

	perm := models.Permission{
		Code:        code,
		Resource:    resource,
		Action:      action,
		Description: description,
		Category:    category,
	}
	if err := s.db.Create(&perm).Error; err != nil {
		return models.Permission{}, err
	}
	return perm, nil
}

// UpdatePermission changes descriptive fields only; code, resource and
// action are immutable once a permission exists.
func (s *Service) UpdatePermission(id uint, description, category *string) (models.Permission, error) {
	perm, err := s.resolvePermission(PermissionRef{ID: id})
	if err != nil {
		return models.Permission{}, err
	}
	if description != nil {
		perm.Description = *description
	}
	if category != nil {
		perm.Category = *category
	}
	if err := s.db.Save(&perm).Error; err != nil {
		return models.Permission{}, err
	}
	return perm, nil
}

// DeletePermission removes a catalog entry. Deletion is blocked while any
// role or user override still references the permission.
func (s *Service) DeletePermission(id uint) error {
	if _, err := s.resolvePermission(PermissionRef{ID: id}); err != nil {
		return err
	}

	var roleRefs int64
	if err := s.db.Table("role_permissions").Where("permission_id = ?", id).Count(&roleRefs).Error; err != nil {
		return err
	}
	var userRefs int64
	if err := s.db.Model(&models.UserPermission{}).Where("permission_id = ?", id).Count(&userRefs).Error; err != nil {
		return err
	}
	if roleRefs > 0 || userRefs > 0 {
		return fmt.Errorf("%w: permission is still referenced", ErrConflict)
	}

	return s.db.Delete(&models.Permission{}, id).Error
}
