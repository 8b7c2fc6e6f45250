package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupPaymentRoutes configures payment routes. The webhook endpoint is
// unauthenticated; it verifies the gateway signature instead.
func SetupPaymentRoutes(app *fiber.App) {
	payments := app.Group("/payments")

	payments.Post("/", middleware.Protected(), middleware.RequirePermission("payments:create"), controllers.CreatePayment)
	payments.Get("/me", middleware.Protected(), controllers.GetMyPayments)
	payments.Post("/webhook/midtrans", controllers.MidtransWebhook)
}
