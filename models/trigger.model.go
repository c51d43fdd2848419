package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TriggerType enum values
const (
	TriggerCourseCompleted  = "COURSE_COMPLETED"
	TriggerQuizFailedStreak = "QUIZ_FAILED_STREAK"
	TriggerInactivity       = "INACTIVITY"
)

// ActionType enum values
const (
	ActionWebhookAlert = "WEBHOOK_ALERT"
	ActionEmail        = "EMAIL"
)

// ProactiveTrigger is an admin-authored rule evaluated against learner
// activity. Condition and Action are stored as JSON but each declared type
// has its own payload shape; blobs that do not match their declared type are
// rejected at write time.
type ProactiveTrigger struct {
	gorm.Model
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	TriggerType string         `json:"trigger_type" gorm:"type:varchar(40);not null"`
	Condition   datatypes.JSON `json:"condition"`
	ActionType  string         `json:"action_type" gorm:"type:varchar(40);not null"`
	Action      datatypes.JSON `json:"action"`
	IsEnabled   bool           `json:"is_enabled" gorm:"default:true"`
	IsDeleted   bool           `gorm:"default:false"`
}

// CourseCompletedCondition fires when a learner finishes the course
type CourseCompletedCondition struct {
	CourseID uint `json:"course_id"`
}

// QuizFailedStreakCondition fires after N consecutive failed attempts on one video's quiz
type QuizFailedStreakCondition struct {
	VideoID        uint `json:"video_id"`
	FailedAttempts int  `json:"failed_attempts"`
}

// InactivityCondition fires when a learner has recorded no progress for N days
type InactivityCondition struct {
	Days int `json:"days"`
}

// WebhookAlertAction posts an alert to an external endpoint. An empty URL
// falls back to the configured triage portal endpoint at dispatch time.
type WebhookAlertAction struct {
	URL      string `json:"url"`
	Severity string `json:"severity"` // INFO, WARNING, CRITICAL
}

// EmailAction sends a templated email to the learner
type EmailAction struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func decodeStrict(raw datatypes.JSON, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// DecodeCondition parses the condition blob into the variant declared by
// TriggerType and validates its fields.
func (t *ProactiveTrigger) DecodeCondition() (interface{}, error) {
	switch t.TriggerType {
	case TriggerCourseCompleted:
		var cond CourseCompletedCondition
		if err := decodeStrict(t.Condition, &cond); err != nil {
			return nil, fmt.Errorf("invalid COURSE_COMPLETED condition: %v", err)
		}
		if cond.CourseID == 0 {
			return nil, fmt.Errorf("course_id is required")
		}
		return &cond, nil
	case TriggerQuizFailedStreak:
		var cond QuizFailedStreakCondition
		if err := decodeStrict(t.Condition, &cond); err != nil {
			return nil, fmt.Errorf("invalid QUIZ_FAILED_STREAK condition: %v", err)
		}
		if cond.VideoID == 0 {
			return nil, fmt.Errorf("video_id is required")
		}
		if cond.FailedAttempts < 1 {
			return nil, fmt.Errorf("failed_attempts must be at least 1")
		}
		return &cond, nil
	case TriggerInactivity:
		var cond InactivityCondition
		if err := decodeStrict(t.Condition, &cond); err != nil {
			return nil, fmt.Errorf("invalid INACTIVITY condition: %v", err)
		}
		if cond.Days < 1 {
			return nil, fmt.Errorf("days must be at least 1")
		}
		return &cond, nil
	default:
		return nil, fmt.Errorf("unknown trigger type: %s", t.TriggerType)
	}
}

// DecodeAction parses the action blob into the variant declared by ActionType
// and validates its fields.
func (t *ProactiveTrigger) DecodeAction() (interface{}, error) {
	switch t.ActionType {
	case ActionWebhookAlert:
		var action WebhookAlertAction
		if err := decodeStrict(t.Action, &action); err != nil {
			return nil, fmt.Errorf("invalid WEBHOOK_ALERT action: %v", err)
		}
		switch action.Severity {
		case "INFO", "WARNING", "CRITICAL":
		default:
			return nil, fmt.Errorf("severity must be INFO, WARNING or CRITICAL")
		}
		return &action, nil
	case ActionEmail:
		var action EmailAction
		if err := decodeStrict(t.Action, &action); err != nil {
			return nil, fmt.Errorf("invalid EMAIL action: %v", err)
		}
		if action.Subject == "" {
			return nil, fmt.Errorf("subject is required")
		}
		return &action, nil
	default:
		return nil, fmt.Errorf("unknown action type: %s", t.ActionType)
	}
}

// Validate checks both payloads against their declared types
func (t *ProactiveTrigger) Validate() error {
	if _, err := t.DecodeCondition(); err != nil {
		return err
	}
	if _, err := t.DecodeAction(); err != nil {
		return err
	}
	return nil
}
