package middleware

import (
	"net/http/httptest"
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
	))
	db.DB = gdb
}

func seedViewer(t *testing.T) models.User {
	t.Helper()
	perm := models.Permission{Code: "rooms:view", Resource: "rooms", Action: "view"}
	require.NoError(t, db.DB.Create(&perm).Error)

	role := models.Role{Name: "User", IsSystem: true}
	require.NoError(t, db.DB.Create(&role).Error)
	require.NoError(t, db.DB.Model(&role).Association("Permissions").Append(&perm))

	user := models.User{Name: "Viewer", Email: "viewer@example.com", Status: models.StatusActive, RoleID: role.ID}
	require.NoError(t, db.DB.Create(&user).Error)
	return user
}

// testApp wires the guard under test behind a fake identity middleware so
// the JWT layer stays out of the picture.
func testApp(userID uint, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})
	return app
}

func TestRequirePermissionAllows(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequirePermission("rooms:view"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequirePermissionDeniesMissingCode(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequirePermission("rooms:delete"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionAnyOf(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequirePermission("rooms:delete", "rooms:view"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAllPermissionsDeniesPartialSet(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequireAllPermissions("rooms:view", "rooms:delete"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	setupTestDB(t)
	seedViewer(t)

	app := testApp(0, RequirePermission("rooms:view"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequireRole("User"))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	app = testApp(user.ID, RequireRole("Admin"))
	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

// Permission changes made between requests take effect on the very next
// request; there is no caching layer to go stale.
func TestPermissionChangeTakesEffectNextRequest(t *testing.T) {
	setupTestDB(t)
	user := seedViewer(t)

	app := testApp(user.ID, RequirePermission("rooms:view"))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var perm models.Permission
	require.NoError(t, db.DB.Where("code = ?", "rooms:view").First(&perm).Error)
	override := models.UserPermission{UserID: user.ID, PermissionID: perm.ID, Granted: false}
	require.NoError(t, db.DB.Create(&override).Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
