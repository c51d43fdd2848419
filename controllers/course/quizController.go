package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"
	courseModels "medlearn/models/course"
	"medlearn/progression"
	"medlearn/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OptionPayload is an option as served to learners; correctness is never included
type OptionPayload struct {
	Label      string `json:"label"`
	OptionText string `json:"option_text"`
}

// QuestionPayload is a question as served to learners
type QuestionPayload struct {
	ID         uint            `json:"id"`
	Prompt     string          `json:"prompt"`
	OrderIndex int             `json:"order_index"`
	Options    []OptionPayload `json:"options"`
}

// loadQuizQuestions fetches a video's questions with ordered options
func loadQuizQuestions(db *gorm.DB, videoID int) ([]courseModels.Question, error) {
	var questions []courseModels.Question
	err := db.Where("video_id = ? AND is_deleted = ?", videoID, false).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc")
		}).
		Order("order_index asc").Find(&questions).Error
	return questions, err
}

// GetVideoQuestions returns the quiz for a video. The payload is served
// lazily, just before the quiz is presented, and never contains the correct
// answer labels; scoring happens entirely server-side.
func GetVideoQuestions(c *fiber.Ctx) error {
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

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)

	// Check course existence and premium access
	if _, err := loadCourseForLearner(database.Database.Db, userID, courseID); err != nil {
		return courseAccessResponse(c, err)
	}

	// Check if user is enrolled
	if _, err := requireEnrollment(database.Database.Db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	videos, err := loadOrderedVideos(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course videos!", nil)
	}

	index := videoIndex(videos, videoID)
	if index < 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found in this course!", nil)
	}

	if !videos[index].RequiresQuiz {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This video has no quiz!", nil)
	}

	progress, err := loadProgressMap(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	// The quiz belongs to the video, so the video itself must be unlocked
	if !progression.CanAccess(index, videos, progress) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This video isn't unlocked yet!", nil)
	}

	questions, err := loadQuizQuestions(database.Database.Db, videoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This video has no quiz!", nil)
	}

	// Strip answers and resolve legacy option labels
	payload := make([]QuestionPayload, len(questions))
	for i, question := range questions {
		options := make([]OptionPayload, len(question.Options))
		for j, option := range question.Options {
			label, err := progression.OptionLabel(option, j)
			if err != nil {
				log.Printf("[QUIZ] Malformed options on question %d: %v", question.ID, err)
				return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz question has malformed options!", nil)
			}
			options[j] = OptionPayload{Label: label, OptionText: option.OptionText}
		}
		payload[i] = QuestionPayload{
			ID:         question.ID,
			Prompt:     question.Prompt,
			OrderIndex: question.OrderIndex,
			Options:    options,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", payload)
}

// SubmitQuiz scores a full quiz submission server-side. Every question must
// be answered; the quiz passes only when every answer is correct. A pass
// persists quiz_passed for the video; a fail changes nothing and the user may
// retry immediately. A previously earned pass is never revoked.
func SubmitQuiz(c *fiber.Ctx) error {
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

	// Retrieve validated IDs and answers
	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)
	reqData := c.Locals("validatedQuizSubmission").(*struct {
		Answers map[string]string `json:"answers"`
	})

	// Check course existence and premium access
	if _, err := loadCourseForLearner(database.Database.Db, userID, courseID); err != nil {
		return courseAccessResponse(c, err)
	}

	// Check if user is enrolled
	if _, err := requireEnrollment(database.Database.Db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	videos, err := loadOrderedVideos(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course videos!", nil)
	}

	index := videoIndex(videos, videoID)
	if index < 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found in this course!", nil)
	}

	progress, err := loadProgressMap(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	// Enforce sequential unlock
	if !progression.CanAccess(index, videos, progress) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This video isn't unlocked yet!", nil)
	}

	questions, err := loadQuizQuestions(database.Database.Db, videoID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "This video has no quiz!", nil)
	}

	// Convert string question IDs from the JSON body
	answers := make(map[uint]string, len(reqData.Answers))
	for key, label := range reqData.Answers {
		questionID, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid question ID in answers!", nil)
		}
		answers[uint(questionID)] = label
	}

	result, err := progression.EvaluateQuiz(questions, answers)
	if err != nil {
		if errors.Is(err, progression.ErrIncompleteSubmission) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "You haven't answered everything: "+err.Error(), nil)
		}
		var validationErr *progression.ValidationError
		if errors.As(err, &validationErr) {
			// Label resolution failed, so the quiz data itself is broken
			log.Printf("[QUIZ] Malformed questions on video %d: %v", videoID, err)
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Quiz question has malformed options!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate quiz!", nil)
	}

	// Get attempt number
	var attemptCount int64
	database.Database.Db.Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND video_id = ? AND is_deleted = ?", userID, videoID, false).Count(&attemptCount)

	// Store submitted answers as JSON
	answersJSON, _ := json.Marshal(reqData.Answers)

	attempt := courseModels.QuizAttempt{
		UserID:        userID,
		VideoID:       uint(videoID),
		Answers:       answersJSON,
		CorrectCount:  result.CorrectCount,
		TotalCount:    result.TotalCount,
		Passed:        result.Passed,
		AttemptNumber: int(attemptCount) + 1,
	}

	// Load or lazily create the progress record
	record, exists := progress[uint(videoID)]
	if !exists {
		record = courseModels.VideoProgress{
			UserID:   userID,
			VideoID:  uint(videoID),
			CourseID: uint(courseID),
		}
	}

	// A pass is permanent; a later fail never downgrades it
	if result.Passed {
		record.QuizPassed = true
	}

	// Attempt and progress persist together or not at all
	tx := database.Database.Db.Begin()
	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		log.Printf("[QUIZ] Failed to persist attempt for user %d video %d: %v", userID, videoID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}
	if result.Passed {
		if err := tx.Save(&record).Error; err != nil {
			tx.Rollback()
			log.Printf("[QUIZ] Failed to persist quiz pass for user %d video %d: %v", userID, videoID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
		}
	}
	tx.Commit()

	progress[uint(videoID)] = record

	// Correctness map keyed by question ID, plus explanations for review
	correct := make(map[string]bool, len(result.Correct))
	for questionID, isCorrect := range result.Correct {
		correct[strconv.FormatUint(uint64(questionID), 10)] = isCorrect
	}
	explanations := make(map[string]string, len(questions))
	for _, question := range questions {
		if question.Explanation != "" {
			explanations[strconv.FormatUint(uint64(question.ID), 10)] = question.Explanation
		}
	}

	if result.Passed {
		updateEnrollmentProgress(userID, uint(courseID))
	} else {
		go utils.FireQuizFailedStreakTriggers(userID, uint(videoID))
	}

	state := progression.State{Kind: progression.StateTakingQuiz, Index: index}

	response := map[string]interface{}{
		"passed":        result.Passed,
		"correct":       correct,
		"correct_count": result.CorrectCount,
		"total_count":   result.TotalCount,
		"explanations":  explanations,
		"attempt":       attempt,
		"state":         state.OnQuizResult(result.Passed, videos),
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", response)
}
