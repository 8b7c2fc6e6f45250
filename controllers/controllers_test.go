package controllers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.UserPermission{},
		&models.Room{},
		&models.Payment{},
	))
	db.DB = gdb
}

func seedMember(t *testing.T, email string) models.User {
	t.Helper()
	role := models.Role{Name: "User", IsSystem: true}
	require.NoError(t, db.DB.Where("name = ?", role.Name).FirstOrCreate(&role).Error)

	user := models.User{
		Name:       "Member",
		Email:      email,
		Status:     models.StatusActive,
		IsVerified: true,
		RoleID:     role.ID,
		Role:       role,
	}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

// withIdentity stands in for the JWT layer and sets the caller identity
// directly.
func withIdentity(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}
