package subscriptionValidator

import (
	"medlearn/middleware"
	"medlearn/models"

	"github.com/gofiber/fiber/v2"
)

// Subscribe validates the subscription payload
func Subscribe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Plan      string `json:"plan"`
			PaymentID string `json:"payment_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch reqData.Plan {
		case models.PeriodMonthly, models.PeriodYearly:
		default:
			errors["plan"] = "Plan must be MONTHLY or YEARLY!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubscribe", reqData)
		return c.Next()
	}
}
