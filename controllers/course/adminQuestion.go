package controllers

import (
	"medlearn/database"
	"medlearn/middleware"
	courseModels "medlearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminQuestionPayload is a question as served to admins, correct label included
type AdminQuestionPayload struct {
	ID           uint                          `json:"id"`
	VideoID      uint                          `json:"video_id"`
	Prompt       string                        `json:"prompt"`
	CorrectLabel string                        `json:"correct_label"`
	Explanation  string                        `json:"explanation"`
	OrderIndex   int                           `json:"order_index"`
	Options      []courseModels.QuestionOption `json:"options"`
}

// CreateQuestion adds a quiz question with its options to a video (admin only)
func CreateQuestion(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated video ID
	videoID := c.Locals("videoID").(int)

	// Check if video exists
	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	// Retrieve validated question data; label uniqueness and correct-label
	// membership are checked by the validator
	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Prompt       string `json:"prompt"`
		CorrectLabel string `json:"correct_label"`
		Explanation  string `json:"explanation"`
		OrderIndex   int    `json:"order_index"`
		Options      []struct {
			Label      string `json:"label"`
			OptionText string `json:"option_text"`
		} `json:"options"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question := courseModels.Question{
		VideoID:      uint(videoID),
		Prompt:       reqData.Prompt,
		CorrectLabel: reqData.CorrectLabel,
		Explanation:  reqData.Explanation,
		OrderIndex:   reqData.OrderIndex,
	}

	// Question and options persist together or not at all
	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}
	for i, option := range reqData.Options {
		row := courseModels.QuestionOption{
			QuestionID: question.ID,
			Label:      option.Label,
			OptionText: option.OptionText,
			OrderIndex: i,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question options!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question created successfully!", question)
}

// GetVideoQuestionsAdmin lists a video's questions including correct labels (admin only)
func GetVideoQuestionsAdmin(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated video ID
	videoID := c.Locals("videoID").(int)

	questions, err := loadQuizQuestions(database.Database.Db, videoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	payload := make([]AdminQuestionPayload, len(questions))
	for i, question := range questions {
		payload[i] = AdminQuestionPayload{
			ID:           question.ID,
			VideoID:      question.VideoID,
			Prompt:       question.Prompt,
			CorrectLabel: question.CorrectLabel,
			Explanation:  question.Explanation,
			OrderIndex:   question.OrderIndex,
			Options:      question.Options,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", payload)
}

// DeleteQuestion soft deletes a question and its options (admin only)
func DeleteQuestion(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated question ID
	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	tx := database.Database.Db.Begin()
	if err := tx.Model(&courseModels.Question{}).Where("id = ?", questionID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}
	if err := tx.Model(&courseModels.QuestionOption{}).Where("question_id = ?", questionID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question options!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}
