package rbac

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/connectx-id/connectx-backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.UserPermission{},
	))
	return db
}

func seedPermission(t *testing.T, db *gorm.DB, code string) models.Permission {
	t.Helper()
	resource, action := code, ""
	for i := 0; i < len(code); i++ {
		if code[i] == ':' {
			resource, action = code[:i], code[i+1:]
			break
		}
	}
	perm := models.Permission{Code: code, Resource: resource, Action: action}
	require.NoError(t, db.Create(&perm).Error)
	return perm
}

func seedRole(t *testing.T, db *gorm.DB, name string, system bool, codes ...string) models.Role {
	t.Helper()
	role := models.Role{Name: name, IsSystem: system}
	require.NoError(t, db.Create(&role).Error)
	for _, code := range codes {
		perm := seedPermission(t, db, code)
		require.NoError(t, db.Model(&role).Association("Permissions").Append(&perm))
	}
	return role
}

func seedUser(t *testing.T, db *gorm.DB, email string, roleID uint) models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Status: models.StatusActive, RoleID: roleID}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func codesOf(perms []EffectivePermission) []string {
	codes := make([]string, 0, len(perms))
	for _, p := range perms {
		codes = append(codes, p.Code)
	}
	return codes
}
