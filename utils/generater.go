package utils

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func GenerateOTP() string {
	// Generate a 4-digit OTP
	var number [1]byte
	rand.Read(number[:])
	return fmt.Sprintf("%04d", int(number[0])%10000)
}

func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateOrderID builds a payment order id from a room slug and user id,
// suffixed so retries for the same room never collide.
func GenerateOrderID(roomSlug string, userID uint) string {
	slug := roomSlug
	if len(slug) > 25 {
		slug = slug[:25]
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s_%d_%s", slug, userID, suffix)
}
