package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/connectx-id/connectx-backend/db"
	"github.com/connectx-id/connectx-backend/models"
)

// StartCronJobs initializes and starts the background scheduler
func StartCronJobs() {
	c := cron.New()

	// Hourly hygiene: resolution already ignores expired overrides, this
	// just keeps the table from accumulating dead rows.
	_, err := c.AddFunc("0 * * * *", sweepExpiredOverrides)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	// Expire payments the gateway never confirmed.
	_, err = c.AddFunc("*/15 * * * *", expireStalePayments)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sweepExpiredOverrides deletes override rows whose expiry lapsed more
// than a day ago. The grace period keeps recent rows visible in the admin
// override listing.
func sweepExpiredOverrides() {
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.DB.Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Delete(&models.UserPermission{})
	if result.Error != nil {
		log.Printf("Error sweeping expired permission overrides: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Swept %d expired permission override(s)", result.RowsAffected)
	}
}

// expireStalePayments marks day-old PENDING payments as EXPIRED
func expireStalePayments() {
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.DB.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Update("status", models.PaymentExpired)
	if result.Error != nil {
		log.Printf("Error expiring stale payments: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale payment(s)", result.RowsAffected)
	}
}
