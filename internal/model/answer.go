package model

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	QuestionID   uint           `json:"question_id" gorm:"not null;index"`
	Text         *string        `json:"text,omitempty"`
	ImageURL     *string        `json:"image_url,omitempty"`
	AudioURL     *string        `json:"audio_url,omitempty"`
	IsCorrect    bool           `json:"is_correct" gorm:"not null;default:false"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	MatchTarget  *string        `json:"match_target,omitempty"` // drag-drop only: the target this answer belongs to
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
