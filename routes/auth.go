package routes

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/middleware"
)

// SetupAuthRoutes configures authentication and profile routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Credential endpoints are keyed on IP plus the submitted email so a
	// single address cannot be hammered from many sources.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			var body struct {
				Email string `json:"email"`
			}
			if err := json.Unmarshal(c.Body(), &body); err == nil && body.Email != "" {
				return c.IP() + ":" + body.Email
			}
			return c.IP()
		},
	})

	auth.Post("/register", authLimiter, controllers.Register)
	auth.Post("/verify-email", authLimiter, controllers.VerifyEmail)
	auth.Post("/login", authLimiter, controllers.Login)
	auth.Post("/forgot-password", authLimiter, controllers.ForgotPassword)
	auth.Post("/reset-password", authLimiter, controllers.ResetPassword)
	auth.Post("/refresh", middleware.Protected(), controllers.Refresh)
	auth.Get("/me", middleware.Protected(), controllers.Me)

	profile := app.Group("/profile", middleware.Protected())
	profile.Get("/", controllers.GetProfile)
	profile.Post("/update", controllers.UpdateProfile)
}
