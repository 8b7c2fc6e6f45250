package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/utils"
)

// GetProfile returns the caller's own account
func GetProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	user.Password = ""
	user.OTP = ""
	return c.JSON(user)
}

// UpdateProfile changes the caller's own details and profile picture
func UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	type UpdateProfileInput struct {
		Name        *string `json:"name"`
		City        *string `json:"city"`
		PhoneNumber *string `json:"phone_number"`
	}

	input := new(UpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse body"})
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}

	if file, err := c.FormFile("profilePicture"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read image file"})
		}
		defer src.Close()

		url, err := utils.UploadToCloudinary(src, "profile-"+user.Email, "profiles")
		if err != nil {
			log.Printf("Failed to upload profile picture: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
		}
		user.ProfilePictureURL = url
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	user.Password = ""
	user.OTP = ""
	return c.JSON(user)
}
