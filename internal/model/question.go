package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// QuestionType is a closed enumeration; unknown values are rejected at the
// admin input boundary, never inside scoring.
type QuestionType string

const (
	QuestionDragDropImage QuestionType = "drag_drop_image" // drag answers onto match targets
	QuestionAudioSelect   QuestionType = "audio_select"
	QuestionImageSelect   QuestionType = "image_select"
	QuestionTextSelect    QuestionType = "text_select"
	QuestionFillBlank     QuestionType = "fill_blank"
)

// ParseQuestionType validates a raw type string against the known variants.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch qt := QuestionType(raw); qt {
	case QuestionDragDropImage, QuestionAudioSelect, QuestionImageSelect, QuestionTextSelect, QuestionFillBlank:
		return qt, nil
	default:
		return "", fmt.Errorf("unknown question type %q", raw)
	}
}

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	TestID       uint           `json:"test_id" gorm:"not null;index"`
	Type         QuestionType   `json:"type" gorm:"not null"`
	Text         *string        `json:"text,omitempty"`
	AudioURL     *string        `json:"audio_url,omitempty"`
	ImageURL     *string        `json:"image_url,omitempty"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	Points       int            `json:"points" gorm:"not null;default:1"`
	Answers      []Answer       `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CorrectAnswers returns the answers flagged as correct, in stored order.
func (q *Question) CorrectAnswers() []Answer {
	var correct []Answer
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct = append(correct, a)
		}
	}
	return correct
}
