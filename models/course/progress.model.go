package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VideoProgress tracks one user's state on one video. Created lazily on the
// first interaction and never deleted; WatchedSeconds never decreases and
// QuizPassed is never downgraded once true.
type VideoProgress struct {
	gorm.Model
	UserID         uint `json:"user_id" gorm:"index:idx_user_video,unique;not null"`
	VideoID        uint `json:"video_id" gorm:"index:idx_user_video,unique;not null"`
	CourseID       uint `json:"course_id" gorm:"index;not null"`
	Completed      bool `json:"completed" gorm:"default:false"`
	QuizPassed     bool `json:"quiz_passed" gorm:"default:false"`
	WatchedSeconds int  `json:"watched_seconds" gorm:"default:0"`
	IsDeleted      bool `gorm:"default:false"`
}

// QuizAttempt is the audit record of a single quiz submission
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	VideoID       uint           `json:"video_id" gorm:"index;not null"`
	Answers       datatypes.JSON `json:"answers"` // map of question ID to submitted label
	CorrectCount  int            `json:"correct_count"`
	TotalCount    int            `json:"total_count"`
	Passed        bool           `json:"passed" gorm:"default:false"`
	AttemptNumber int            `json:"attempt_number" gorm:"default:1"`
	IsDeleted     bool           `gorm:"default:false"`
}
