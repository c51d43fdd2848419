package utils

import (
	"log"
	"medlearn/database"
	"medlearn/models"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeSubscriptionScheduler sets up the daily maintenance jobs
func InitializeSubscriptionScheduler() {
	log.Println("[SCHEDULER] Initializing daily scheduler...")

	c := cron.New()

	// Run daily at 9 AM to check subscriptions and inactivity triggers
	c.AddFunc("0 9 * * *", func() {
		log.Println("[SCHEDULER] Running daily subscription check...")
		ProcessExpiringSubscriptions()
		ExpireSubscriptions()
		RunInactivityTriggers()
	})

	c.Start()
	log.Println("[SCHEDULER] Scheduler started - runs daily at 9 AM")
}

// ProcessExpiringSubscriptions sends reminder emails for subscriptions expiring in 2 days
func ProcessExpiringSubscriptions() {
	db := database.Database.Db
	now := time.Now()
	twoDaysFromNow := now.AddDate(0, 0, 2)

	// Find subscriptions expiring in ~2 days that haven't received a reminder
	var expiringSubscriptions []models.Subscription
	if err := db.
		Where("status = ? AND reminder_sent = false AND expires_at IS NOT NULL", models.SubscriptionActive).
		Where("expires_at BETWEEN ? AND ?", now, twoDaysFromNow).
		Find(&expiringSubscriptions).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching expiring subscriptions: %v", err)
		return
	}

	log.Printf("[SCHEDULER] Found %d subscriptions expiring soon", len(expiringSubscriptions))

	for _, sub := range expiringSubscriptions {
		// Get user details
		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err != nil {
			log.Printf("[SCHEDULER] Error fetching user %d: %v", sub.UserID, err)
			continue
		}

		// Send reminder email
		SendSubscriptionExpiryReminder(user.Email, user.Name, sub.ExpiresAt)

		// Mark reminder as sent
		sub.ReminderSent = true
		if err := db.Save(&sub).Error; err != nil {
			log.Printf("[SCHEDULER] Error marking reminder sent for subscription %d: %v", sub.ID, err)
		}
	}
}

// ExpireSubscriptions marks overdue subscriptions as EXPIRED and notifies users
func ExpireSubscriptions() {
	db := database.Database.Db
	now := time.Now()

	var overdueSubscriptions []models.Subscription
	if err := db.
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.SubscriptionActive, now).
		Find(&overdueSubscriptions).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching overdue subscriptions: %v", err)
		return
	}

	log.Printf("[SCHEDULER] Expiring %d overdue subscriptions", len(overdueSubscriptions))

	for _, sub := range overdueSubscriptions {
		sub.Status = models.SubscriptionExpired
		if err := db.Save(&sub).Error; err != nil {
			log.Printf("[SCHEDULER] Error expiring subscription %d: %v", sub.ID, err)
			continue
		}

		var user models.User
		if err := db.Where("id = ?", sub.UserID).First(&user).Error; err != nil {
			continue
		}
		SendSubscriptionExpiredEmail(user.Email, user.Name)
	}
}
