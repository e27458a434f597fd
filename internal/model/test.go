package model

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Test struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CategoryID       uint           `json:"category_id" gorm:"not null;index"`
	Category         Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Title            string         `json:"title" gorm:"not null"`
	Description      *string        `json:"description,omitempty"`
	ThumbnailURL     *string        `json:"thumbnail_url,omitempty"`
	Difficulty       Difficulty     `json:"difficulty" gorm:"not null;default:'easy'"`
	PointsReward     int            `json:"points_reward" gorm:"not null;default:10"`
	TimeLimitSeconds *int           `json:"time_limit_seconds,omitempty"`
	IsPublished      bool           `json:"is_published" gorm:"not null;default:false"`
	DisplayOrder     int            `json:"display_order" gorm:"not null;default:0"`
	Questions        []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// MaxScore is the total point value of all questions in the test.
func (t *Test) MaxScore() int {
	total := 0
	for _, q := range t.Questions {
		total += q.Points
	}
	return total
}
