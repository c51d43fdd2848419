package middleware

import (
	"medlearn/database"
	"medlearn/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HasActiveSubscription reports whether the user holds an ACTIVE, unexpired
// subscription. Any lookup error denies access.
func HasActiveSubscription(db *gorm.DB, userID uint) bool {
	var subscription models.Subscription
	err := db.Where("user_id = ? AND status = ? AND is_deleted = false", userID, models.SubscriptionActive).
		Order("created_at desc").
		First(&subscription).Error
	if err != nil {
		return false
	}
	if subscription.ExpiresAt != nil && subscription.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// RequireActiveSubscription blocks the request unless the user has an active
// subscription. Used in front of premium-only routes.
func RequireActiveSubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !HasActiveSubscription(database.Database.Db, userID) {
		return JsonResponse(c, fiber.StatusForbidden, false, "An active subscription is required to access this course!", nil)
	}

	return c.Next()
}
