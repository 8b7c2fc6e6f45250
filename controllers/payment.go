package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/middleware"
	"github.com/connectx-id/connectx-backend/models"
	"github.com/connectx-id/connectx-backend/utils"
)

// CreatePayment opens a gateway transaction for joining a room
func CreatePayment(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	type CreatePaymentInput struct {
		RoomID uint  `json:"room_id"`
		Amount int64 `json:"amount"`
	}

	input := new(CreatePaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if input.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be a positive number"})
	}

	var room models.Room
	if err := db.DB.Preload("CreatedBy").First(&room, input.RoomID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Room not found"})
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	orderID := utils.GenerateOrderID(room.Slug, userID)

	client := utils.NewSnapClient()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: input.Amount,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.Name,
			Email: user.Email,
			Phone: user.PhoneNumber,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Name:  "Event by " + room.CreatedBy.Name,
				Price: input.Amount,
				Qty:   1,
			},
		},
	}

	resp, snapErr := client.CreateTransaction(req)
	if snapErr != nil {
		log.Printf("Failed to create gateway transaction for order %s: %v", orderID, snapErr)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create payment transaction"})
	}

	payment := models.Payment{
		OrderID:     orderID,
		UserID:      userID,
		RoomID:      room.ID,
		GrossAmount: input.Amount,
		Status:      models.PaymentPending,
		SnapToken:   resp.Token,
		RedirectURL: resp.RedirectURL,
	}
	if err := db.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetMyPayments lists the caller's payments
func GetMyPayments(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var payments []models.Payment
	if err := db.DB.Preload("Room").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get payments"})
	}
	return c.JSON(payments)
}

// MidtransWebhook processes gateway status notifications. The signature is
// verified before any state change; the payment status machine is driven
// entirely by the mapped gateway status.
func MidtransWebhook(c *fiber.Ctx) error {
	type Notification struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
	}

	notif := new(Notification)
	if err := c.BodyParser(notif); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if !utils.VerifyMidtransSignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var payment models.Payment
	if err := db.DB.Preload("User").Preload("Room").
		Where("order_id = ?", notif.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}

	status := utils.MapTransactionStatus(notif.TransactionStatus, notif.FraudStatus)
	updates := map[string]interface{}{"status": status}
	if status == models.PaymentPaid || status == models.PaymentSettled {
		updates["paid_at"] = time.Now()
	}
	if err := db.DB.Model(&payment).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment"})
	}

	if status != models.PaymentPending && payment.User.Email != "" {
		go sendPaymentNotification(payment, status)
	}

	return c.JSON(fiber.Map{"message": "OK"})
}

func sendPaymentNotification(payment models.Payment, status string) {
	when := payment.PaidAt
	if when.IsZero() {
		when = time.Now()
	}

	subject := fmt.Sprintf("Payment %s - %s", status, payment.Room.Title)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment for <strong>%s</strong> is now <strong>%s</strong>.</p>
		<ul>
			<li><strong>Order ID:</strong> %s</li>
			<li><strong>Amount:</strong> %d</li>
			<li><strong>Time:</strong> %s WIB</li>
		</ul>
		<p>Best regards,</p>
		<p>The ConnectX Team</p>
	`, payment.User.Name, payment.Room.Title, status, payment.OrderID, payment.GrossAmount,
		utils.ToWIB(when).Format("02 Jan 2006 15:04"))

	if err := utils.SendEmail(payment.User.Email, subject, body); err != nil {
		log.Printf("Failed to send payment notification for order %s: %v", payment.OrderID, err)
	}
}
