package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/models"
)

func seedRoomWithPayment(t *testing.T, user models.User, slug string, at time.Time, status string) models.Room {
	t.Helper()
	room := models.Room{Title: slug, Slug: slug, Datetime: at, CreatedByID: user.ID}
	require.NoError(t, db.DB.Create(&room).Error)
	payment := models.Payment{
		OrderID: slug + "-order",
		UserID:  user.ID,
		RoomID:  room.ID,
		Status:  status,
	}
	require.NoError(t, db.DB.Create(&payment).Error)
	return room
}

func TestGetMyScheduleSplitsUpcomingAndPast(t *testing.T) {
	setupTestDB(t)
	user := seedMember(t, "member@example.com")

	future := seedRoomWithPayment(t, user, "future-event", time.Now().Add(48*time.Hour), models.PaymentPaid)
	past := seedRoomWithPayment(t, user, "past-event", time.Now().Add(-48*time.Hour), models.PaymentSettled)
	seedRoomWithPayment(t, user, "unpaid-event", time.Now().Add(24*time.Hour), models.PaymentPending)

	app := fiber.New()
	app.Get("/schedule", withIdentity(user.ID), GetMySchedule)

	resp, err := app.Test(httptest.NewRequest("GET", "/schedule", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Upcoming []models.Room `json:"upcoming"`
		Past     []models.Room `json:"past"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Upcoming, 1)
	require.Equal(t, future.ID, body.Upcoming[0].ID)
	require.Len(t, body.Past, 1)
	require.Equal(t, past.ID, body.Past[0].ID)
}

func TestGetMyScheduleExcludesOtherUsers(t *testing.T) {
	setupTestDB(t)
	user := seedMember(t, "member@example.com")
	other := seedMember(t, "other@example.com")
	seedRoomWithPayment(t, other, "their-event", time.Now().Add(48*time.Hour), models.PaymentPaid)

	app := fiber.New()
	app.Get("/schedule", withIdentity(user.ID), GetMySchedule)

	resp, err := app.Test(httptest.NewRequest("GET", "/schedule", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Upcoming []models.Room `json:"upcoming"`
		Past     []models.Room `json:"past"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Empty(t, body.Upcoming)
	require.Empty(t, body.Past)
}
