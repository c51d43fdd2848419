package adminValidator

import (
	"medlearn/middleware"
	"medlearn/models"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateCourse validates the course creation payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Author      string `json:"author"`
			IsPremium   bool   `json:"is_premium"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the course update payload
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Author      *string `json:"author"`
			Status      *string `json:"status"`
			IsPremium   *bool   `json:"is_premium"`
			IsPublished *bool   `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.Status != nil {
			switch *reqData.Status {
			case "DRAFT", "ACTIVE", "INACTIVE":
			default:
				errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CreateVideo validates the video creation payload
func CreateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			VideoURL        string `json:"video_url"`
			DurationSeconds int    `json:"duration_seconds"`
			Position        int    `json:"position"`
			RequiresQuiz    bool   `json:"requires_quiz"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Position < 0 {
			errors["position"] = "Position cannot be negative!"
		}
		if reqData.DurationSeconds < 0 {
			errors["duration_seconds"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

// UpdateVideo validates the video update payload
func UpdateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title           *string `json:"title"`
			Description     *string `json:"description"`
			VideoURL        *string `json:"video_url"`
			DurationSeconds *int    `json:"duration_seconds"`
			Position        *int    `json:"position"`
			RequiresQuiz    *bool   `json:"requires_quiz"`
			IsPublished     *bool   `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position != nil && *reqData.Position < 0 {
			errors["position"] = "Position cannot be negative!"
		}
		if reqData.DurationSeconds != nil && *reqData.DurationSeconds < 0 {
			errors["duration_seconds"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoUpdate", reqData)
		return c.Next()
	}
}

// CreateQuestion validates a question with its options. Labels must be unique
// within the question, the correct label must match one of the options, and
// more than four options require explicit labels.
func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Prompt       string `json:"prompt"`
			CorrectLabel string `json:"correct_label"`
			Explanation  string `json:"explanation"`
			OrderIndex   int    `json:"order_index"`
			Options      []struct {
				Label      string `json:"label"`
				OptionText string `json:"option_text"`
			} `json:"options"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Prompt) == "" {
			errors["prompt"] = "Prompt is required!"
		}
		if len(reqData.Options) < 2 {
			errors["options"] = "At least two options are required!"
		}

		// Positional fallback labels only cover A-D
		positionalLabels := []string{"A", "B", "C", "D"}
		seen := make(map[string]bool)
		labels := make([]string, 0, len(reqData.Options))
		for i, option := range reqData.Options {
			label := option.Label
			if label == "" {
				if i >= len(positionalLabels) {
					errors["options"] = "Options beyond the fourth must carry explicit labels!"
					break
				}
				label = positionalLabels[i]
			}
			if seen[label] {
				errors["options"] = "Option label '" + label + "' is duplicated!"
				break
			}
			seen[label] = true
			labels = append(labels, label)

			if strings.TrimSpace(option.OptionText) == "" {
				errors["options"] = "Option text cannot be empty!"
				break
			}
		}

		if reqData.CorrectLabel == "" {
			errors["correct_label"] = "Correct label is required!"
		} else if len(errors) == 0 && !seen[reqData.CorrectLabel] {
			errors["correct_label"] = "Correct label must match one of the options!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// QuestionParam validates the :question_id route parameter
func QuestionParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, err := strconv.Atoi(strings.TrimSpace(c.Params("question_id")))
		if err != nil || questionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}

		c.Locals("questionID", questionID)
		return c.Next()
	}
}

// VideoParam validates the :video_id route parameter
func VideoParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		videoID, err := strconv.Atoi(strings.TrimSpace(c.Params("video_id")))
		if err != nil || videoID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Video ID!", nil)
		}

		c.Locals("videoID", videoID)
		return c.Next()
	}
}

// RequestParam validates the :request_id route parameter
func RequestParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, err := strconv.Atoi(strings.TrimSpace(c.Params("request_id")))
		if err != nil || requestID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// RejectCertificate validates the rejection payload
func RejectCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Reason) == "" {
			errors["reason"] = "A rejection reason is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRejection", reqData)
		return c.Next()
	}
}

// TriggerParam validates the :trigger_id route parameter
func TriggerParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		triggerID, err := strconv.Atoi(strings.TrimSpace(c.Params("trigger_id")))
		if err != nil || triggerID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Trigger ID!", nil)
		}

		c.Locals("triggerID", triggerID)
		return c.Next()
	}
}

// CreateTrigger validates the trigger payload shape; variant payload checks
// happen in the model
func CreateTrigger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			TriggerType string         `json:"trigger_type"`
			Condition   datatypes.JSON `json:"condition"`
			ActionType  string         `json:"action_type"`
			Action      datatypes.JSON `json:"action"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		switch reqData.TriggerType {
		case models.TriggerCourseCompleted, models.TriggerQuizFailedStreak, models.TriggerInactivity:
		default:
			errors["trigger_type"] = "Unknown trigger type!"
		}
		switch reqData.ActionType {
		case models.ActionWebhookAlert, models.ActionEmail:
		default:
			errors["action_type"] = "Unknown action type!"
		}
		if len(reqData.Condition) == 0 {
			errors["condition"] = "Condition is required!"
		}
		if len(reqData.Action) == 0 {
			errors["action"] = "Action is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTrigger", reqData)
		return c.Next()
	}
}
