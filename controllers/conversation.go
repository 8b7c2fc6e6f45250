package controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/conversation"
	"github.com/connectx-id/connectx-backend/middleware"
)

// Assistant is the conversation client constructed in main. The token
// lifecycle lives inside the client, not in package globals here.
var Assistant *conversation.Client

// Converse proxies one chat message to the assistant
func Converse(c *fiber.Ctx) error {
	if Assistant == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Assistant is not configured",
		})
	}

	type ConverseInput struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}

	input := new(ConverseInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if input.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("user-%d", middleware.CurrentUserID(c))
	}

	reply, err := Assistant.Query(c.Context(), sessionID, input.Message)
	if err != nil {
		log.Printf("Assistant query failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Assistant is unavailable"})
	}

	return c.JSON(reply)
}
