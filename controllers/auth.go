package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/rbac"
	"github.com/connectx-id/connectx-backend/utils"
)

// Register handles user registration
func Register(c *fiber.Ctx) error {
	user := new(models.User)

	if err := c.BodyParser(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if user.Email == "" || user.Password == "" || user.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	var existingUser models.User
	if db.DB.Where("email = ?", user.Email).First(&existingUser).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}
	user.Password = string(hashedPassword)
	user.Status = models.StatusActive

	// Self-registration always lands on the default member role.
	var memberRole models.Role
	if err := db.DB.Where("name = ?", "User").First(&memberRole).Error; err != nil {
		log.Printf("Error finding default role: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign default role",
		})
	}
	user.RoleID = memberRole.ID
	user.Role = memberRole

	user.OTP = utils.GenerateOTP()
	user.OTPExpiresAt = time.Now().Add(15 * time.Minute)

	if err := db.DB.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	if err := utils.SendEmail(user.Email, "Verify your ConnectX account",
		"<p>Your verification code is <strong>"+user.OTP+"</strong>. It expires in 15 minutes.</p>"); err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
	}

	user.Password = ""
	user.OTP = ""

	return c.Status(fiber.StatusCreated).JSON(user)
}

// VerifyEmail confirms the OTP sent at registration
func VerifyEmail(c *fiber.Ctx) error {
	type VerifyInput struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}

	input := new(VerifyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.OTP == "" || user.OTP != input.OTP || time.Now().After(user.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired code",
		})
	}

	user.IsVerified = true
	user.OTP = ""
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to verify email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

// Login handles user authentication
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Preload("Role").Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if user.Status == models.StatusDeleted {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if user.Status != models.StatusActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account is not active",
		})
	}

	if !user.IsVerified {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Email not verified",
		})
	}

	token, err := createToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create token",
		})
	}

	db.DB.Model(&user).Update("last_login_at", time.Now())

	permissions, err := rbac.New(db.DB).ResolveEffectivePermissions(user.ID)
	if err != nil {
		log.Printf("Failed to resolve permissions for user %d: %v", user.ID, err)
		permissions = []rbac.EffectivePermission{}
	}

	user.Password = ""
	user.OTP = ""

	return c.JSON(fiber.Map{
		"token":       token,
		"user":        user,
		"permissions": permissions,
	})
}

// Me returns the current user with a freshly resolved permission list
func Me(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.Status != models.StatusActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account is not active",
		})
	}

	permissions, err := rbac.New(db.DB).ResolveEffectivePermissions(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve permissions",
		})
	}

	user.Password = ""
	user.OTP = ""

	return c.JSON(fiber.Map{
		"user":        user,
		"permissions": permissions,
	})
}

// ForgotPassword sends a reset OTP to the user's email
func ForgotPassword(c *fiber.Ctx) error {
	type ForgotInput struct {
		Email string `json:"email"`
	}

	input := new(ForgotInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		// Do not reveal whether the email exists
		return c.JSON(fiber.Map{
			"message": "If the email exists, a reset code has been sent",
		})
	}

	user.OTP = utils.GenerateOTP()
	user.OTPExpiresAt = time.Now().Add(15 * time.Minute)
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create reset code",
		})
	}

	if err := utils.SendEmail(user.Email, "Reset your ConnectX password",
		"<p>Your password reset code is <strong>"+user.OTP+"</strong>. It expires in 15 minutes.</p>"); err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
	}

	return c.JSON(fiber.Map{
		"message": "If the email exists, a reset code has been sent",
	})
}

// ResetPassword sets a new password after OTP verification
func ResetPassword(c *fiber.Ctx) error {
	type ResetInput struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"new_password"`
	}

	input := new(ResetInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "New password is required",
		})
	}

	var user models.User
	if db.DB.Where("email = ?", input.Email).First(&user).RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired code",
		})
	}

	if user.OTP == "" || user.OTP != input.OTP || time.Now().After(user.OTPExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired code",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user.Password = string(hashedPassword)
	user.OTP = ""
	if err := db.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset password",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}

// Refresh re-issues a token for an authenticated identity so sessions can
// be extended without re-entering credentials.
func Refresh(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if user.Status != models.StatusActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account is not active",
		})
	}

	token, err := createToken(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

func createToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": user.Role.Name,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(utils.JWTSecret())
}
