package controllers

import (
	"errors"
	"log"
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"
	courseModels "medlearn/models/course"
	"medlearn/progression"
	"medlearn/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadOrderedVideos fetches a course's published videos in unlock order
func loadOrderedVideos(db *gorm.DB, courseID int) ([]courseModels.Video, error) {
	var videos []courseModels.Video
	err := db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("position asc").Find(&videos).Error
	return videos, err
}

// loadProgressMap fetches the user's progress records for a course keyed by video ID
func loadProgressMap(db *gorm.DB, userID uint, courseID int) (map[uint]courseModels.VideoProgress, error) {
	var records []courseModels.VideoProgress
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&records).Error; err != nil {
		return nil, err
	}

	progress := make(map[uint]courseModels.VideoProgress, len(records))
	for _, record := range records {
		progress[record.VideoID] = record
	}
	return progress, nil
}

// videoIndex finds a video's position index within the ordered list
func videoIndex(videos []courseModels.Video, videoID int) int {
	for i, video := range videos {
		if video.ID == uint(videoID) {
			return i
		}
	}
	return -1
}

// loadCourseForLearner loads a published course and enforces the premium
// gate. Every learner-facing course operation goes through this, so an
// expired subscription locks premium content mid-course as well.
func loadCourseForLearner(db *gorm.DB, userID uint, courseID int) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return nil, &progression.NotFoundError{Resource: "course", ID: uint(courseID)}
	}
	if course.IsPremium && !middleware.HasActiveSubscription(db, userID) {
		return nil, &progression.AuthorizationError{Message: "subscription required"}
	}
	return &course, nil
}

// courseAccessResponse maps a loadCourseForLearner error onto the envelope
func courseAccessResponse(c *fiber.Ctx, err error) error {
	var authErr *progression.AuthorizationError
	if errors.As(err, &authErr) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "An active subscription is required to access this course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
}

// VideoWithAccess decorates a video with the user's unlock state
type VideoWithAccess struct {
	courseModels.Video
	Accessible     bool `json:"accessible"`
	Completed      bool `json:"completed"`
	QuizPassed     bool `json:"quiz_passed"`
	WatchedSeconds int  `json:"watched_seconds"`
}

// GetCourseWithProgress returns the course, its ordered videos with unlock
// flags, and the index the user should resume at
func GetCourseWithProgress(c *fiber.Ctx) error {
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

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check course existence and premium access
	course, err := loadCourseForLearner(database.Database.Db, userID, courseID)
	if err != nil {
		return courseAccessResponse(c, err)
	}

	// Check if user is enrolled
	enrollment, err := requireEnrollment(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	videos, err := loadOrderedVideos(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course videos!", nil)
	}

	progress, err := loadProgressMap(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	// Decorate videos with unlock and completion state
	result := make([]VideoWithAccess, len(videos))
	for i, video := range videos {
		result[i] = VideoWithAccess{
			Video:      video,
			Accessible: progression.CanAccess(i, videos, progress),
		}
		if record, ok := progress[video.ID]; ok {
			result[i].Completed = record.Completed
			result[i].QuizPassed = record.QuizPassed
			result[i].WatchedSeconds = record.WatchedSeconds
		}
	}

	response := map[string]interface{}{
		"course":      course,
		"videos":      result,
		"entry_point": progression.ResolveEntryPoint(videos, progress),
		"state":       progression.CurrentState(videos, progress),
		"enrollment":  enrollment,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", response)
}

// RecordVideoWatched persists watch progress for a video. The reported
// duration is client-trusted; the engine only enforces unlock order and
// monotonic watched seconds.
func RecordVideoWatched(c *fiber.Ctx) error {
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

	// Retrieve validated IDs and payload
	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)
	reqData := c.Locals("validatedProgress").(*struct {
		WatchedSeconds int  `json:"watched_seconds"`
		Completed      bool `json:"completed"`
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

	// Load or lazily create the progress record
	record, exists := progress[uint(videoID)]
	if !exists {
		record = courseModels.VideoProgress{
			UserID:   userID,
			VideoID:  uint(videoID),
			CourseID: uint(courseID),
		}
	}

	// Watched seconds never decrease
	if reqData.WatchedSeconds > record.WatchedSeconds {
		record.WatchedSeconds = reqData.WatchedSeconds
	}
	if reqData.Completed {
		record.Completed = true
	}

	// Persist before reporting any advancement
	tx := database.Database.Db.Begin()
	if err := tx.Save(&record).Error; err != nil {
		tx.Rollback()
		log.Printf("[PROGRESS] Failed to persist progress for user %d video %d: %v", userID, videoID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}
	tx.Commit()

	progress[uint(videoID)] = record
	updateEnrollmentProgress(userID, uint(courseID))

	// Tell the caller whether a quiz now stands between this video and the next
	state := progression.State{Kind: progression.StateWatchingVideo, Index: index}
	next := state.OnVideoEnded(videos, progress)

	response := map[string]interface{}{
		"progress":      record,
		"state":         next,
		"quiz_required": next.Kind == progression.StateTakingQuiz,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress recorded successfully!", response)
}

// GetUserProgress returns per-video progress and the completion percentage
func GetUserProgress(c *fiber.Ctx) error {
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

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check course existence and premium access
	if _, err := loadCourseForLearner(database.Database.Db, userID, courseID); err != nil {
		return courseAccessResponse(c, err)
	}

	enrollment, err := requireEnrollment(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	videos, err := loadOrderedVideos(database.Database.Db, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course videos!", nil)
	}

	progress, err := loadProgressMap(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	response := map[string]interface{}{
		"enrollment":  enrollment,
		"progress":    progress,
		"entry_point": progression.ResolveEntryPoint(videos, progress),
		"state":       progression.CurrentState(videos, progress),
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", response)
}

// updateEnrollmentProgress recalculates the enrollment completion percentage
// from the user's progress records. A video counts as completed only when it
// is watched and, if quiz gated, passed.
func updateEnrollmentProgress(userID uint, courseID uint) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	videos, err := loadOrderedVideos(db, int(courseID))
	if err != nil {
		return
	}

	progress, err := loadProgressMap(db, userID, int(courseID))
	if err != nil {
		return
	}

	completed := 0
	for _, video := range videos {
		record, ok := progress[video.ID]
		if !ok || !record.Completed {
			continue
		}
		if video.RequiresQuiz && !record.QuizPassed {
			continue
		}
		completed++
	}

	enrollment.CompletedVideos = completed
	enrollment.TotalVideos = len(videos)
	if len(videos) > 0 {
		enrollment.Progress = float64(completed) / float64(len(videos)) * 100
	}

	wasComplete := enrollment.Status == "COMPLETED"
	if completed == len(videos) && len(videos) > 0 {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if completed > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	if err := db.Save(&enrollment).Error; err != nil {
		log.Printf("[PROGRESS] Failed to update enrollment progress for user %d course %d: %v", userID, courseID, err)
		return
	}

	// Fire course-completion triggers exactly once
	if enrollment.Status == "COMPLETED" && !wasComplete {
		go utils.FireCourseCompletedTriggers(userID, courseID)
	}
}
