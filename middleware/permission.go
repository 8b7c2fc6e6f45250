package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/rbac"
)

// CurrentUserID returns the authenticated user id set by Protected, or 0
// when the request carries no identity.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// RequirePermission allows the request when the user holds at least one of
// the given permission codes.
func RequirePermission(codes ...string) fiber.Handler {
	return requirePermissions(codes, false)
}

// RequireAllPermissions allows the request only when the user holds every
// one of the given permission codes.
func RequireAllPermissions(codes ...string) fiber.Handler {
	return requirePermissions(codes, true)
}

func requirePermissions(codes []string, requireAll bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := rbac.New(db.DB).Authorize(CurrentUserID(c), codes, requireAll)
		if err == nil {
			return c.Next()
		}

		// The denial stays generic so callers cannot enumerate which
		// permission was missing by probing.
		switch {
		case errors.Is(err, rbac.ErrAuthenticationRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		case errors.Is(err, rbac.ErrInsufficientPermissions):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to check permissions",
			})
		}
	}
}

// RequireRole checks if the user has the required role
func RequireRole(roleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		var user models.User
		if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		if user.Role.Name != roleName {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		return c.Next()
	}
}
