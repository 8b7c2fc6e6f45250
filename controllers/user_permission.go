package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/rbac"
)

// GetUserPermissions returns a user's resolved permission set plus the raw
// override rows (expired included) for the admin view
func GetUserPermissions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	svc := rbac.New(db.DB)
	effective, err := svc.ResolveEffectivePermissions(uint(id))
	if err != nil {
		return rbacError(c, err)
	}
	overrides, err := svc.ListUserOverrides(uint(id))
	if err != nil {
		return rbacError(c, err)
	}

	return c.JSON(fiber.Map{
		"effective": effective,
		"overrides": overrides,
	})
}

// GrantUserPermission upserts a granted override for a user
func GrantUserPermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	type GrantInput struct {
		PermissionID uint       `json:"permission_id"`
		Reason       string     `json:"reason"`
		ExpiresAt    *time.Time `json:"expires_at"`
	}

	input := new(GrantInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	grantedBy := middleware.CurrentUserID(c)
	if err := rbac.New(db.DB).GrantUserPermission(uint(id), input.PermissionID, grantedBy, input.Reason, input.ExpiresAt); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permission granted successfully"})
}

// RevokeUserPermission upserts a revoking override for a user
func RevokeUserPermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	type RevokeInput struct {
		PermissionID uint   `json:"permission_id"`
		Reason       string `json:"reason"`
	}

	input := new(RevokeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	grantedBy := middleware.CurrentUserID(c)
	if err := rbac.New(db.DB).RevokeUserPermission(uint(id), input.PermissionID, grantedBy, input.Reason); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permission revoked successfully"})
}

// RemoveUserPermission deletes an override row, reverting the pair to
// role-derived resolution
func RemoveUserPermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}
	permissionID, err := c.ParamsInt("permissionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permission id"})
	}

	if err := rbac.New(db.DB).RemoveUserPermission(uint(id), uint(permissionID)); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permission override removed"})
}
