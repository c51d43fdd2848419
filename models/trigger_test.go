package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecodeCondition(t *testing.T) {
	testCases := []struct {
		name        string
		triggerType string
		condition   string
		wantErr     bool
	}{
		{"valid course completed", TriggerCourseCompleted, `{"course_id": 3}`, false},
		{"course completed without course", TriggerCourseCompleted, `{}`, true},
		{"course completed with foreign fields", TriggerCourseCompleted, `{"course_id": 3, "days": 7}`, true},
		{"valid quiz failed streak", TriggerQuizFailedStreak, `{"video_id": 5, "failed_attempts": 3}`, false},
		{"quiz failed streak without threshold", TriggerQuizFailedStreak, `{"video_id": 5}`, true},
		{"valid inactivity", TriggerInactivity, `{"days": 14}`, false},
		{"inactivity with zero days", TriggerInactivity, `{"days": 0}`, true},
		{"unknown trigger type", "SOMETHING_ELSE", `{}`, true},
		{"condition shaped for a different variant", TriggerInactivity, `{"course_id": 3}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trigger := ProactiveTrigger{
				TriggerType: tc.triggerType,
				Condition:   datatypes.JSON(tc.condition),
			}
			_, err := trigger.DecodeCondition()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeAction(t *testing.T) {
	testCases := []struct {
		name       string
		actionType string
		action     string
		wantErr    bool
	}{
		{"valid webhook", ActionWebhookAlert, `{"url": "https://triage.example.com/alerts", "severity": "WARNING"}`, false},
		{"webhook without url falls back to the configured endpoint", ActionWebhookAlert, `{"severity": "INFO"}`, false},
		{"webhook with bad severity", ActionWebhookAlert, `{"url": "https://x", "severity": "LOUD"}`, true},
		{"valid email", ActionEmail, `{"subject": "Keep going!", "body": "You were close."}`, false},
		{"email without subject", ActionEmail, `{"body": "hi"}`, true},
		{"unknown action type", "SMS", `{}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trigger := ProactiveTrigger{
				ActionType: tc.actionType,
				Action:     datatypes.JSON(tc.action),
			}
			_, err := trigger.DecodeAction()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTriggerValidate(t *testing.T) {
	trigger := ProactiveTrigger{
		Name:        "alert-on-repeat-failures",
		TriggerType: TriggerQuizFailedStreak,
		Condition:   datatypes.JSON(`{"video_id": 7, "failed_attempts": 3}`),
		ActionType:  ActionWebhookAlert,
		Action:      datatypes.JSON(`{"url": "https://triage.example.com/alerts", "severity": "CRITICAL"}`),
	}
	require.NoError(t, trigger.Validate())

	trigger.Condition = datatypes.JSON(`{"days": 3}`)
	assert.Error(t, trigger.Validate())
}
