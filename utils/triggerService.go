package utils

import (
	"log"
	"medlearn/config"
	"medlearn/database"
	"medlearn/models"
	courseModels "medlearn/models/course"
	"time"

	"github.com/go-resty/resty/v2"
)

// TriggerEvent is the payload posted to the triage portal for webhook actions
type TriggerEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Event     string `json:"event"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// FireCourseCompletedTriggers runs enabled COURSE_COMPLETED triggers matching the course
func FireCourseCompletedTriggers(userID uint, courseID uint) {
	db := database.Database.Db

	var triggers []models.ProactiveTrigger
	if err := db.Where("trigger_type = ? AND is_enabled = ? AND is_deleted = ?", models.TriggerCourseCompleted, true, false).Find(&triggers).Error; err != nil {
		log.Printf("[TRIGGER] Error fetching course-completed triggers: %v", err)
		return
	}

	for _, trigger := range triggers {
		decoded, err := trigger.DecodeCondition()
		if err != nil {
			log.Printf("[TRIGGER] Skipping trigger %d with invalid condition: %v", trigger.ID, err)
			continue
		}
		cond := decoded.(*models.CourseCompletedCondition)
		if cond.CourseID != courseID {
			continue
		}
		executeTriggerAction(&trigger, userID, "course_completed", "Course completed")
	}
}

// FireQuizFailedStreakTriggers runs enabled QUIZ_FAILED_STREAK triggers when the
// user's consecutive failed attempts on a video reach the configured count
func FireQuizFailedStreakTriggers(userID uint, videoID uint) {
	db := database.Database.Db

	var triggers []models.ProactiveTrigger
	if err := db.Where("trigger_type = ? AND is_enabled = ? AND is_deleted = ?", models.TriggerQuizFailedStreak, true, false).Find(&triggers).Error; err != nil {
		log.Printf("[TRIGGER] Error fetching quiz-failed triggers: %v", err)
		return
	}
	if len(triggers) == 0 {
		return
	}

	// Count consecutive fails from the latest attempt backwards
	var attempts []courseModels.QuizAttempt
	if err := db.Where("user_id = ? AND video_id = ? AND is_deleted = ?", userID, videoID, false).
		Order("created_at desc").Limit(20).Find(&attempts).Error; err != nil {
		log.Printf("[TRIGGER] Error fetching attempts: %v", err)
		return
	}

	streak := 0
	for _, attempt := range attempts {
		if attempt.Passed {
			break
		}
		streak++
	}

	for _, trigger := range triggers {
		decoded, err := trigger.DecodeCondition()
		if err != nil {
			log.Printf("[TRIGGER] Skipping trigger %d with invalid condition: %v", trigger.ID, err)
			continue
		}
		cond := decoded.(*models.QuizFailedStreakCondition)
		if cond.VideoID != videoID || streak < cond.FailedAttempts {
			continue
		}
		executeTriggerAction(&trigger, userID, "quiz_failed_streak", "Repeated failed quiz attempts")
	}
}

// RunInactivityTriggers fires INACTIVITY triggers for learners whose most
// recent progress update is older than the configured number of days. Called
// daily by the scheduler.
func RunInactivityTriggers() {
	db := database.Database.Db

	var triggers []models.ProactiveTrigger
	if err := db.Where("trigger_type = ? AND is_enabled = ? AND is_deleted = ?", models.TriggerInactivity, true, false).Find(&triggers).Error; err != nil {
		log.Printf("[TRIGGER] Error fetching inactivity triggers: %v", err)
		return
	}
	if len(triggers) == 0 {
		return
	}

	var rows []struct {
		UserID uint
		Last   time.Time
	}
	if err := db.Model(&courseModels.VideoProgress{}).
		Select("user_id, max(updated_at) as last").
		Where("is_deleted = ?", false).
		Group("user_id").Find(&rows).Error; err != nil {
		log.Printf("[TRIGGER] Error fetching activity summary: %v", err)
		return
	}

	for _, trigger := range triggers {
		decoded, err := trigger.DecodeCondition()
		if err != nil {
			log.Printf("[TRIGGER] Skipping trigger %d with invalid condition: %v", trigger.ID, err)
			continue
		}
		cond := decoded.(*models.InactivityCondition)
		cutoff := time.Now().AddDate(0, 0, -cond.Days)

		for _, row := range rows {
			if row.Last.After(cutoff) {
				continue
			}
			executeTriggerAction(&trigger, row.UserID, "inactivity", "No learning activity recently")
		}
	}
}

// executeTriggerAction dispatches the trigger's configured action for a user
func executeTriggerAction(trigger *models.ProactiveTrigger, userID uint, event string, message string) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("[TRIGGER] User %d not found for trigger %d", userID, trigger.ID)
		return
	}

	decoded, err := trigger.DecodeAction()
	if err != nil {
		log.Printf("[TRIGGER] Skipping trigger %d with invalid action: %v", trigger.ID, err)
		return
	}

	switch action := decoded.(type) {
	case *models.WebhookAlertAction:
		url := action.URL
		if url == "" {
			url = config.AppConfig.TriageWebhookURL
		}
		if url == "" {
			log.Printf("[TRIGGER] No webhook URL configured for trigger %d", trigger.ID)
			return
		}

		payload := TriggerEvent{
			UserID:    user.ID,
			Email:     user.Email,
			Event:     event,
			Severity:  action.Severity,
			Message:   message,
			Timestamp: time.Now().Format(time.RFC3339),
		}

		client := resty.New()
		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetAuthToken(config.AppConfig.TriageWebhookKey).
			SetBody(payload).
			Post(url)
		if err != nil {
			log.Printf("[TRIGGER] Webhook dispatch failed for trigger %d: %v", trigger.ID, err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("[TRIGGER] Webhook for trigger %d returned %d: %s", trigger.ID, resp.StatusCode(), resp.String())
		}
	case *models.EmailAction:
		SendTriggerEmail(user.Email, user.Name, action.Subject, action.Body)
	}
}
