package db

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/connectx-id/connectx-backend/models"
)

// Seed creates the permission catalog, the default roles with their
// permission bundles, and a bootstrap admin account. Existing records are
// left alone, so seeding is safe to run repeatedly.
func Seed() {
	seedPermissions()
	seedRoles()
	seedAdminUser()
	log.Println("Seed data applied")
}

func seedPermissions() {
	permissions := []models.Permission{
		// User management
		{Resource: "users", Action: "view", Code: "users:view", Description: "Can view user list and details", Category: "users"},
		{Resource: "users", Action: "create", Code: "users:create", Description: "Can create new users", Category: "users"},
		{Resource: "users", Action: "update", Code: "users:update", Description: "Can update user information", Category: "users"},
		{Resource: "users", Action: "delete", Code: "users:delete", Description: "Can delete users", Category: "users"},

		// Event rooms
		{Resource: "rooms", Action: "view", Code: "rooms:view", Description: "Can view room listings", Category: "rooms"},
		{Resource: "rooms", Action: "create", Code: "rooms:create", Description: "Can create rooms", Category: "rooms"},
		{Resource: "rooms", Action: "update", Code: "rooms:update", Description: "Can update rooms", Category: "rooms"},
		{Resource: "rooms", Action: "delete", Code: "rooms:delete", Description: "Can delete rooms", Category: "rooms"},
		{Resource: "rooms", Action: "highlight", Code: "rooms:highlight", Description: "Can feature rooms on the landing page", Category: "rooms"},

		// Payments
		{Resource: "payments", Action: "view", Code: "payments:view", Description: "Can view payment records", Category: "payments"},
		{Resource: "payments", Action: "create", Code: "payments:create", Description: "Can initiate payments", Category: "payments"},
		{Resource: "payments", Action: "refund", Code: "payments:refund", Description: "Can issue refunds", Category: "payments"},

		// RBAC administration
		{Resource: "roles", Action: "view", Code: "roles:view", Description: "Can view roles and the permission catalog", Category: "rbac"},
		{Resource: "roles", Action: "create", Code: "roles:create", Description: "Can create roles", Category: "rbac"},
		{Resource: "roles", Action: "update", Code: "roles:update", Description: "Can update roles", Category: "rbac"},
		{Resource: "roles", Action: "delete", Code: "roles:delete", Description: "Can delete roles", Category: "rbac"},
		{Resource: "permissions", Action: "assign", Code: "permissions:assign", Description: "Can assign permissions to roles", Category: "rbac"},
		{Resource: "permissions", Action: "grant", Code: "permissions:grant", Description: "Can grant or revoke per-user permissions", Category: "rbac"},

		// Conversational assistant
		{Resource: "conversations", Action: "use", Code: "conversations:use", Description: "Can talk to the assistant", Category: "conversations"},
	}

	for _, permission := range permissions {
		var existing models.Permission
		if DB.Where("code = ?", permission.Code).First(&existing).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}
}

func seedRoles() {
	roles := []struct {
		role  models.Role
		codes []string
	}{
		{
			role:  models.Role{Name: "Super Admin", Description: "Full system access with all permissions", Priority: 1000, IsSystem: true},
			codes: nil, // gets everything below
		},
		{
			role: models.Role{Name: "Admin", Description: "Administrative access to most features", Priority: 900, IsSystem: true},
			codes: []string{
				"users:view", "users:create", "users:update", "users:delete",
				"rooms:view", "rooms:create", "rooms:update", "rooms:delete", "rooms:highlight",
				"payments:view", "payments:create", "payments:refund",
				"roles:view", "permissions:assign", "permissions:grant",
				"conversations:use",
			},
		},
		{
			role: models.Role{Name: "Manager", Description: "Can manage rooms and review payments", Priority: 500},
			codes: []string{
				"users:view",
				"rooms:view", "rooms:create", "rooms:update", "rooms:highlight",
				"payments:view",
				"conversations:use",
			},
		},
		{
			role: models.Role{Name: "Editor", Description: "Can curate room content", Priority: 400},
			codes: []string{
				"rooms:view", "rooms:create", "rooms:update", "rooms:highlight",
			},
		},
		{
			role: models.Role{Name: "Accountant", Description: "Can manage payments", Priority: 300},
			codes: []string{
				"rooms:view", "payments:view", "payments:create", "payments:refund",
			},
		},
		{
			role: models.Role{Name: "User", Description: "Basic member access", Priority: 100, IsSystem: true},
			codes: []string{
				"rooms:view", "rooms:create", "payments:create", "conversations:use",
			},
		},
	}

	for _, entry := range roles {
		var role models.Role
		if DB.Where("name = ?", entry.role.Name).First(&role).RowsAffected == 0 {
			role = entry.role
			DB.Create(&role)
		}

		var bundle []models.Permission
		if entry.codes == nil {
			DB.Find(&bundle)
		} else {
			DB.Where("code IN (?)", entry.codes).Find(&bundle)
		}
		// Append only adds missing links; grants made by administrators
		// after the initial seed survive a re-seed.
		DB.Model(&role).Association("Permissions").Append(&bundle)
	}
}

func seedAdminUser() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@connectx.local"
	}

	var existing models.User
	if DB.Where("email = ?", email).First(&existing).RowsAffected > 0 {
		return
	}

	var superAdmin models.Role
	if err := DB.Where("name = ?", "Super Admin").First(&superAdmin).Error; err != nil {
		log.Printf("Seed: Super Admin role missing, skipping admin user: %v", err)
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Seed: failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:       "Administrator",
		Email:      email,
		Password:   string(hashed),
		Status:     models.StatusActive,
		IsVerified: true,
		RoleID:     superAdmin.ID,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Seed: failed to create admin user: %v", err)
	}
}
