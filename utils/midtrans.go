package utils

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/connectx-id/connectx-backend/models"
)

// NewSnapClient builds a Midtrans Snap client from env configuration.
func NewSnapClient() snap.Client {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(os.Getenv("MIDTRANS_SERVER_KEY"), env)
	return client
}

// VerifyMidtransSignature checks the SHA-512 webhook signature
// (order_id + status_code + gross_amount + server key).
func VerifyMidtransSignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	payload := orderID + statusCode + grossAmount + os.Getenv("MIDTRANS_SERVER_KEY")
	sum := sha512.Sum512([]byte(payload))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}

// MapTransactionStatus converts gateway transaction/fraud statuses to a
// payment status.
func MapTransactionStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return models.PaymentPending
		}
		return models.PaymentPaid
	case "settlement":
		return models.PaymentSettled
	case "pending":
		return models.PaymentPending
	case "expire":
		return models.PaymentExpired
	case "cancel":
		return models.PaymentCanceled
	case "deny", "failure", "failed":
		return models.PaymentFailed
	default:
		return models.PaymentPending
	}
}
