package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupRBACRoutes configures all RBAC related routes
func SetupRBACRoutes(app *fiber.App) {
	rbac := app.Group("/rbac", middleware.Protected())

	// Roles
	roles := rbac.Group("/roles")
	roles.Get("/", middleware.RequirePermission("roles:view"), controllers.GetRoles)
	roles.Get("/:id", middleware.RequirePermission("roles:view"), controllers.GetRole)
	roles.Post("/", middleware.RequirePermission("roles:create"), controllers.CreateRole)
	roles.Patch("/:id", middleware.RequirePermission("roles:update"), controllers.UpdateRole)
	roles.Delete("/:id", middleware.RequirePermission("roles:delete"), controllers.DeleteRole)
	roles.Post("/:id/permissions", middleware.RequirePermission("permissions:assign"), controllers.AssignPermissionToRole)
	roles.Delete("/:id/permissions/:permissionId", middleware.RequirePermission("permissions:assign"), controllers.RevokePermissionFromRole)

	// Permission catalog
	permissions := rbac.Group("/permissions")
	permissions.Get("/", middleware.RequirePermission("roles:view"), controllers.GetPermissions)
	permissions.Post("/", middleware.RequireRole("Super Admin"), controllers.CreatePermission)
	permissions.Patch("/:id", middleware.RequireRole("Super Admin"), controllers.UpdatePermission)
	permissions.Delete("/:id", middleware.RequireRole("Super Admin"), controllers.DeletePermission)

	// Role assignment and per-user overrides
	users := rbac.Group("/users")
	users.Post("/role", middleware.RequirePermission("roles:update"), controllers.AssignRoleToUser)
	users.Get("/:id/permissions", middleware.RequirePermission("permissions:grant"), controllers.GetUserPermissions)
	users.Post("/:id/permissions/grant", middleware.RequirePermission("permissions:grant"), controllers.GrantUserPermission)
	users.Post("/:id/permissions/revoke", middleware.RequirePermission("permissions:grant"), controllers.RevokeUserPermission)
	users.Delete("/:id/permissions/:permissionId", middleware.RequirePermission("permissions:grant"), controllers.RemoveUserPermission)
}
