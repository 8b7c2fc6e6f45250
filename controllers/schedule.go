package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/models"
)

// GetMySchedule lists the events the caller has paid to join, split into
// upcoming and past by the event start time.
func GetMySchedule(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var rooms []models.Room
	if err := db.DB.
		Distinct("rooms.*").
		Joins("JOIN payments ON payments.room_id = rooms.id").
		Where("payments.user_id = ? AND payments.status IN (?)",
			userID, []string{models.PaymentPaid, models.PaymentSettled}).
		Order("rooms.datetime ASC").
		Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get schedule"})
	}

	now := time.Now()
	upcoming := []models.Room{}
	past := []models.Room{}
	for _, room := range rooms {
		if room.Datetime.After(now) {
			upcoming = append(upcoming, room)
		} else {
			past = append(past, room)
		}
	}

	return c.JSON(fiber.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}
