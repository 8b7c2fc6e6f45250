package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/connectx-id/connectx-backend/controllers"
	"github.com/connectx-id/connectx-backend/conversation"
	"github.com/connectx-id/connectx-backend/cron"
	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/redis"
	"github.com/connectx-id/connectx-backend/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	if os.Getenv("DISABLE_SEED") == "" {
		db.Seed()
	}

	if os.Getenv("REDIS_ADDR") != "" {
		redis.InitRedis()
	}

	if os.Getenv("AGENT_BASE_URL") != "" {
		tokens := conversation.NewTokenManager(redis.Client, conversation.EnvTokenFunc())
		controllers.Assistant = conversation.NewClient(tokens)
	}

	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	routes.SetupAuthRoutes(app)
	routes.SetupRBACRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupRoomRoutes(app)
	routes.SetupPaymentRoutes(app)
	routes.SetupConversationRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
