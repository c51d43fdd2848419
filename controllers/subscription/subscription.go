package subscriptionController

import (
	"medlearn/config"
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Subscribe activates a premium subscription for the user. Payment capture is
// handled by an external gateway; this endpoint records the resulting access
// window.
func Subscribe(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated subscription data
	reqData, ok := c.Locals("validatedSubscribe").(*struct {
		Plan      string `json:"plan"`
		PaymentID string `json:"payment_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check for an existing active subscription
	if middleware.HasActiveSubscription(database.Database.Db, userID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already has an active subscription!", nil)
	}

	now := time.Now()
	var expiresAt time.Time
	var price float64
	if reqData.Plan == models.PeriodYearly {
		expiresAt = now.AddDate(1, 0, 0)
		price = config.AppConfig.YearlyPlanPrice
	} else {
		expiresAt = now.AddDate(0, 1, 0)
		price = config.AppConfig.MonthlyPlanPrice
	}

	subscription := models.Subscription{
		UserID:       userID,
		Plan:         reqData.Plan,
		Price:        price,
		Status:       models.SubscriptionActive,
		SubscribedAt: now,
		ExpiresAt:    &expiresAt,
		PaymentID:    reqData.PaymentID,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&subscription).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create subscription!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscribed successfully!", subscription)
}

// MySubscription returns the user's latest subscription
func MySubscription(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var subscription models.Subscription
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No subscription found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully!", subscription)
}

// CancelSubscription cancels the user's active subscription
func CancelSubscription(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var subscription models.Subscription
	if err := database.Database.Db.Where("user_id = ? AND status = ? AND is_deleted = ?", userID, models.SubscriptionActive, false).
		Order("created_at desc").First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active subscription found!", nil)
	}

	subscription.Status = models.SubscriptionCancelled

	if err := database.Database.Db.Save(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cancel subscription!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription cancelled successfully!", subscription)
}

// ListSubscriptions lists all subscriptions (admin only)
func ListSubscriptions(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var subscriptions []models.Subscription
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&subscriptions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch subscriptions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscriptions fetched successfully!", subscriptions)
}
