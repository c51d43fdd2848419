package course

import "gorm.io/gorm"

// Question represents a quiz question attached to a video
type Question struct {
	gorm.Model
	VideoID      uint   `json:"video_id" gorm:"index;not null"`
	Prompt       string `json:"prompt" gorm:"type:text"`
	CorrectLabel string `json:"-" gorm:"type:varchar(10)"` // never serialized to clients
	Explanation  string `json:"explanation" gorm:"type:text"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`

	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// QuestionOption represents one selectable option of a question. Label is the
// answer token ("A".."D"); legacy rows may leave it empty and rely on the
// option text prefix or position.
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Label      string `json:"label" gorm:"type:varchar(10)"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
