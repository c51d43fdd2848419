package controllers

import (
	"medlearn/database"
	"medlearn/middleware"
	courseModels "medlearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateVideo adds a video to a course at a unique position (admin only)
func CreateVideo(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Retrieve validated video data
	reqData, ok := c.Locals("validatedVideo").(*struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		Position        int    `json:"position"`
		RequiresQuiz    bool   `json:"requires_quiz"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Position is the unlock order and must be unique within the course
	var existing courseModels.Video
	if err := database.Database.Db.Where("course_id = ? AND position = ? AND is_deleted = ?", courseID, reqData.Position, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A video already exists at this position!", nil)
	}

	video := courseModels.Video{
		CourseID:        uint(courseID),
		Title:           reqData.Title,
		Description:     reqData.Description,
		VideoURL:        reqData.VideoURL,
		DurationSeconds: reqData.DurationSeconds,
		Position:        reqData.Position,
		RequiresQuiz:    reqData.RequiresQuiz,
	}

	if err := database.Database.Db.Create(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video created successfully!", video)
}

// UpdateVideo updates video fields. Position changes are rejected once any
// progress record references the video, since it would rewrite unlock history.
func UpdateVideo(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", videoID, courseID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	// Retrieve validated update data
	reqData, ok := c.Locals("validatedVideoUpdate").(*struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		VideoURL        *string `json:"video_url"`
		DurationSeconds *int    `json:"duration_seconds"`
		Position        *int    `json:"position"`
		RequiresQuiz    *bool   `json:"requires_quiz"`
		IsPublished     *bool   `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Position != nil && *reqData.Position != video.Position {
		// Reordering is blocked once learners have progress on this video
		var progressCount int64
		database.Database.Db.Model(&courseModels.VideoProgress{}).
			Where("video_id = ? AND is_deleted = ?", videoID, false).Count(&progressCount)
		if progressCount > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot reposition a video that already has learner progress!", nil)
		}

		var existing courseModels.Video
		if err := database.Database.Db.Where("course_id = ? AND position = ? AND is_deleted = ? AND id <> ?", courseID, *reqData.Position, false, videoID).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A video already exists at this position!", nil)
		}
		video.Position = *reqData.Position
	}

	if reqData.Title != nil {
		video.Title = *reqData.Title
	}
	if reqData.Description != nil {
		video.Description = *reqData.Description
	}
	if reqData.VideoURL != nil {
		video.VideoURL = *reqData.VideoURL
	}
	if reqData.DurationSeconds != nil {
		video.DurationSeconds = *reqData.DurationSeconds
	}
	if reqData.RequiresQuiz != nil {
		video.RequiresQuiz = *reqData.RequiresQuiz
	}
	if reqData.IsPublished != nil {
		video.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// DeleteVideo soft deletes a video (admin only)
func DeleteVideo(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", videoID, courseID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	video.IsDeleted = true
	video.IsPublished = false

	if err := database.Database.Db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}
