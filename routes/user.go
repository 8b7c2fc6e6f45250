package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupUserRoutes configures user administration routes
func SetupUserRoutes(app *fiber.App) {
	users := app.Group("/users", middleware.Protected())

	users.Get("/", middleware.RequirePermission("users:view"), controllers.GetUsers)
	users.Get("/:id", middleware.RequirePermission("users:view"), controllers.GetUser)
	users.Post("/", middleware.RequirePermission("users:create"), controllers.CreateUser)
	users.Patch("/:id", middleware.RequirePermission("users:update"), controllers.UpdateUser)
	users.Delete("/:id", middleware.RequirePermission("users:delete"), controllers.DeleteUser)
}
