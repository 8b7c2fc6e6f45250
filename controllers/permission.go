package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/rbac"
)

// GetPermissions returns the permission catalog, optionally filtered by
// category or resource
func GetPermissions(c *fiber.Ctx) error {
	permissions, err := rbac.New(db.DB).ListPermissions(rbac.PermissionFilter{
		Category: c.Query("category"),
		Resource: c.Query("resource"),
	})
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(permissions)
}

// CreatePermission adds a catalog entry
func CreatePermission(c *fiber.Ctx) error {
	type CreatePermissionInput struct {
		Resource    string `json:"resource"`
		Action      string `json:"action"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}

	input := new(CreatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	permission, err := rbac.New(db.DB).CreatePermission(input.Resource, input.Action, input.Description, input.Category)
	if err != nil {
		return rbacError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(permission)
}

// UpdatePermission changes descriptive fields of a catalog entry
func UpdatePermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permission id"})
	}

	type UpdatePermissionInput struct {
		Description *string `json:"description"`
		Category    *string `json:"category"`
	}

	input := new(UpdatePermissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	permission, err := rbac.New(db.DB).UpdatePermission(uint(id), input.Description, input.Category)
	if err != nil {
		return rbacError(c, err)
	}
	return c.JSON(permission)
}

// DeletePermission removes a catalog entry if nothing references it
func DeletePermission(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permission id"})
	}

	if err := rbac.New(db.DB).DeletePermission(uint(id)); err != nil {
		return rbacError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permission deleted successfully"})
}
