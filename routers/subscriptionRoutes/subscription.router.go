package subscriptionRoutes

import (
	controllers "medlearn/controllers/subscription"
	"medlearn/middleware"
	validators "medlearn/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

// SetupSubscriptionRoutes sets up subscription routes
func SetupSubscriptionRoutes(app *fiber.App) {
	subscriptionGroup := app.Group("/subscription")

	subscriptionGroup.Post("/subscribe", middleware.JWTMiddleware, validators.Subscribe(), controllers.Subscribe)
	subscriptionGroup.Get("/me", middleware.JWTMiddleware, controllers.MySubscription)
	subscriptionGroup.Post("/cancel", middleware.JWTMiddleware, controllers.CancelSubscription)

	subscriptionGroup.Get("/admin-list", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("view-subscriptions"), controllers.ListSubscriptions)
}
