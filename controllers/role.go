package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/rbac"
)

// rbacError translates the rbac error taxonomy into an HTTP response.
func rbacError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, rbac.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, rbac.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, rbac.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, rbac.ErrSystemRole):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "System roles cannot be deleted"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Operation failed"})
	}
}

// GetRoles returns all roles with their permissions
func GetRoles(c *fiber.Ctx) error {
	roles, err := rbac.New(db.DB).ListRoles()
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(roles)
}

// GetRole returns one role by id
func GetRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	role, err := rbac.New(db.DB).GetRole(uint(id))
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(role)
}

// CreateRole creates a new role
func CreateRole(c *fiber.Ctx) error {
	type CreateRoleInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Priority    int    `json:"priority"`
	}

	input := new(CreateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	role, err := rbac.New(db.DB).CreateRole(input.Name, input.Description, input.Priority)
	if err != nil {
		return rbacError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRole partially updates a role
func UpdateRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	type UpdateRoleInput struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Priority    *int    `json:"priority"`
	}

	input := new(UpdateRoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	role, err := rbac.New(db.DB).UpdateRole(uint(id), rbac.RoleUpdate{
		Name:        input.Name,
		Description: input.Description,
		Priority:    input.Priority,
	})
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(role)
}

// DeleteRole removes a role unless it is a system role or still assigned
func DeleteRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	if err := rbac.New(db.DB).DeleteRole(uint(id)); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role deleted successfully"})
}

// AssignPermissionToRole links a permission (by id or code) to a role
func AssignPermissionToRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}

	type AssignPermissionInput struct {
		PermissionID   uint   `json:"permission_id"`
		PermissionCode string `json:"permission_code"`
	}

	input := new(AssignPermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	svc := rbac.New(db.DB)
	ref := rbac.PermissionRef{ID: input.PermissionID, Code: input.PermissionCode}
	if err := svc.AssignPermission(uint(id), ref); err != nil {
		return rbacError(c, err)
	}

	role, err := svc.GetRole(uint(id))
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(role)
}

// RevokePermissionFromRole unlinks a permission from a role
func RevokePermissionFromRole(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role id"})
	}
	permissionID, err := c.ParamsInt("permissionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permission id"})
	}

	svc := rbac.New(db.DB)
	if err := svc.RevokePermission(uint(id), rbac.PermissionRef{ID: uint(permissionID)}); err != nil {
		return rbacError(c, err)
	}

	role, err := svc.GetRole(uint(id))
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(role)
}

// AssignRoleToUser replaces a user's role assignment
func AssignRoleToUser(c *fiber.Ctx) error {
	type AssignRoleInput struct {
		UserID uint `json:"user_id"`
		RoleID uint `json:"role_id"`
	}

	input := new(AssignRoleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := rbac.New(db.DB).AssignRoleToUser(input.UserID, input.RoleID); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role assigned successfully"})
}
