package db

import (
	"log"

	"github.com/connectx-id/connectx-backend/models"
)

// Migrate runs schema migrations on the already established connection.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.UserPermission{},
		&models.Room{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	log.Println("Migrations applied")
}
