package course

import "gorm.io/gorm"

// Video represents a single playable unit within a course. Position is the
// unlock order and is immutable once progress records reference the video.
type Video struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds" gorm:"default:0"`
	Position        int    `json:"position" gorm:"default:0"`      // unlock order within course
	RequiresQuiz    bool   `json:"requires_quiz" gorm:"default:false"` // next video unlocks only after passing
	IsPublished     bool   `json:"is_published" gorm:"default:false"`
	IsDeleted       bool   `gorm:"default:false"`
}
