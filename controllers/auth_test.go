package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/utils"
)

func refreshApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/auth/refresh", withIdentity(userID), Refresh)
	return app
}

func TestRefreshIssuesTokenForActiveUser(t *testing.T) {
	setupTestDB(t)
	user := seedMember(t, "member@example.com")

	app := refreshApp(user.ID)
	resp, err := app.Test(httptest.NewRequest("POST", "/auth/refresh", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)

	parsed, err := jwt.Parse(body.Token, func(token *jwt.Token) (interface{}, error) {
		return utils.JWTSecret(), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(user.ID), claims["id"])
	require.Equal(t, "User", claims["role"])
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	setupTestDB(t)
	user := seedMember(t, "member@example.com")
	require.NoError(t, db.DB.Model(&models.User{}).
		Where("id = ?", user.ID).Update("status", models.StatusInactive).Error)

	app := refreshApp(user.ID)
	resp, err := app.Test(httptest.NewRequest("POST", "/auth/refresh", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRejectsUnknownUser(t *testing.T) {
	setupTestDB(t)

	app := refreshApp(9999)
	resp, err := app.Test(httptest.NewRequest("POST", "/auth/refresh", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
