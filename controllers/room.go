package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/utils"
)

// GetRooms lists rooms with search, filters, sorting, and pagination
func GetRooms(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 12)
	if limit < 1 || limit > 100 {
		limit = 12
	}

	query := db.DB.Model(&models.Room{})

	if title := c.Query("title"); title != "" {
		query = query.Where("title ILIKE ?", "%"+title+"%")
	}
	if category := c.Query("categories"); category != "" {
		query = query.Where("category = ?", category)
	}
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	switch c.Query("sort") {
	case "datetime_asc":
		query = query.Order("datetime ASC")
	case "datetime_desc":
		query = query.Order("datetime DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get rooms"})
	}

	var rooms []models.Room
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get rooms"})
	}

	return c.JSON(fiber.Map{
		"data":  rooms,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// GetHighlights returns rooms featured on the landing page
func GetHighlights(c *fiber.Ctx) error {
	var rooms []models.Room
	if err := db.DB.Where("is_highlight = ? AND datetime > ?", true, time.Now()).
		Order("datetime ASC").Limit(6).Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get highlights"})
	}
	return c.JSON(rooms)
}

// GetPopular returns upcoming rooms ranked by settled payments
func GetPopular(c *fiber.Ctx) error {
	var rooms []models.Room
	err := db.DB.
		Joins("LEFT JOIN payments ON payments.room_id = rooms.id AND payments.status IN (?)",
			[]string{models.PaymentPaid, models.PaymentSettled}).
		Where("rooms.datetime > ?", time.Now()).
		Group("rooms.id").
		Order("COUNT(payments.id) DESC").
		Limit(6).
		Find(&rooms).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get popular rooms"})
	}
	return c.JSON(rooms)
}

// GetRoomBySlug returns one room with its creator
func GetRoomBySlug(c *fiber.Ctx) error {
	var room models.Room
	if err := db.DB.Preload("CreatedBy").Where("slug = ?", c.Params("slug")).First(&room).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	room.CreatedBy.Password = ""
	room.CreatedBy.OTP = ""
	return c.JSON(room)
}

// CreateRoom creates an event listing, uploading the banner when provided
func CreateRoom(c *fiber.Ctx) error {
	room := new(models.Room)
	if err := c.BodyParser(room); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse body"})
	}

	if room.Title == "" || room.Datetime.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and datetime are required"})
	}

	room.CreatedByID = middleware.CurrentUserID(c)
	room.Slug = slugify(room.Title) + "-" + strings.Split(uuid.NewString(), "-")[0]

	if file, err := c.FormFile("imageFile"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read image file"})
		}
		defer src.Close()

		url, err := utils.UploadToCloudinary(src, room.Slug, "rooms")
		if err != nil {
			log.Printf("Failed to upload room image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
		}
		room.ImageURL = url
	}

	if err := db.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create room"})
	}

	return c.Status(fiber.StatusCreated).JSON(room)
}

// UpdateRoom patches an event listing. Only the creator or a user holding
// rooms:update may change it; the route already enforces the permission.
func UpdateRoom(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}

	var room models.Room
	if err := db.DB.First(&room, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	type UpdateRoomInput struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Category    *string    `json:"category"`
		Country     *string    `json:"country"`
		City        *string    `json:"city"`
		Address     *string    `json:"address"`
		Datetime    *time.Time `json:"datetime"`
		Price       *int64     `json:"price"`
		Capacity    *int       `json:"capacity"`
		IsHighlight *bool      `json:"is_highlight"`
	}

	input := new(UpdateRoomInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if input.Title != nil {
		room.Title = *input.Title
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	if input.Category != nil {
		room.Category = *input.Category
	}
	if input.Country != nil {
		room.Country = *input.Country
	}
	if input.City != nil {
		room.City = *input.City
	}
	if input.Address != nil {
		room.Address = *input.Address
	}
	if input.Datetime != nil {
		room.Datetime = *input.Datetime
	}
	if input.Price != nil {
		room.Price = *input.Price
	}
	if input.Capacity != nil {
		room.Capacity = *input.Capacity
	}
	if input.IsHighlight != nil {
		room.IsHighlight = *input.IsHighlight
	}

	if err := db.DB.Save(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update room"})
	}
	return c.JSON(room)
}

// DeleteRoom soft-deletes an event listing
func DeleteRoom(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid room id"})
	}

	var room models.Room
	if err := db.DB.First(&room, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	if err := db.DB.Delete(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete room"})
	}
	return c.JSON(fiber.Map{"message": "Room deleted successfully"})
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
