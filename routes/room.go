package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupRoomRoutes configures event room routes. Listings are public; any
// mutation goes through the permission gate.
func SetupRoomRoutes(app *fiber.App) {
	rooms := app.Group("/rooms")

	rooms.Get("/highlights", controllers.GetHighlights)
	rooms.Get("/popular", controllers.GetPopular)
	rooms.Get("/", controllers.GetRooms)
	rooms.Get("/:slug", controllers.GetRoomBySlug)

	app.Get("/schedule", middleware.Protected(), controllers.GetMySchedule)

	rooms.Post("/create", middleware.Protected(), middleware.RequirePermission("rooms:create"), controllers.CreateRoom)
	rooms.Patch("/:id", middleware.Protected(), middleware.RequirePermission("rooms:update"), controllers.UpdateRoom)
	rooms.Delete("/:id", middleware.Protected(), middleware.RequirePermission("rooms:delete"), controllers.DeleteRoom)
}
