package adminController

import (
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateTrigger creates a proactive trigger after validating that the
// condition and action blobs match their declared variant types
func CreateTrigger(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated trigger data
	reqData, ok := c.Locals("validatedTrigger").(*struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		TriggerType string         `json:"trigger_type"`
		Condition   datatypes.JSON `json:"condition"`
		ActionType  string         `json:"action_type"`
		Action      datatypes.JSON `json:"action"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	trigger := models.ProactiveTrigger{
		Name:        reqData.Name,
		Description: reqData.Description,
		TriggerType: reqData.TriggerType,
		Condition:   reqData.Condition,
		ActionType:  reqData.ActionType,
		Action:      reqData.Action,
		IsEnabled:   true,
	}

	// Reject payloads that do not match the declared variant
	if err := trigger.Validate(); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	}

	if err := database.Database.Db.Create(&trigger).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create trigger!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trigger created successfully!", trigger)
}

// GetTriggers lists all triggers (admin only)
func GetTriggers(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var triggers []models.ProactiveTrigger
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&triggers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch triggers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Triggers fetched successfully!", triggers)
}

// ToggleTrigger enables or disables a trigger (admin only)
func ToggleTrigger(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated trigger ID
	triggerID := c.Locals("triggerID").(int)

	var trigger models.ProactiveTrigger
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", triggerID, false).First(&trigger).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trigger not found!", nil)
	}

	trigger.IsEnabled = !trigger.IsEnabled

	if err := database.Database.Db.Save(&trigger).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update trigger!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trigger updated successfully!", trigger)
}

// DeleteTrigger soft deletes a trigger (admin only)
func DeleteTrigger(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated trigger ID
	triggerID := c.Locals("triggerID").(int)

	var trigger models.ProactiveTrigger
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", triggerID, false).First(&trigger).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trigger not found!", nil)
	}

	trigger.IsDeleted = true
	trigger.IsEnabled = false

	if err := database.Database.Db.Save(&trigger).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete trigger!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trigger deleted successfully!", nil)
}
