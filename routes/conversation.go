package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupConversationRoutes configures the assistant proxy routes
func SetupConversationRoutes(app *fiber.App) {
	conversations := app.Group("/conversations", middleware.Protected())

	conversations.Post("/", middleware.RequirePermission("conversations:use"), controllers.Converse)
}
