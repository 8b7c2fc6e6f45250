package utils

import "os"

// JWTSecret returns the token signing key shared by token issuance and
// request verification.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}
	return []byte(secret)
}
