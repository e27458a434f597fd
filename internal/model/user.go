package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Email            string         `json:"email" gorm:"not null;uniqueIndex"`
	DisplayName      string         `json:"display_name" gorm:"not null"`
	AvatarURL        *string        `json:"avatar_url,omitempty"`
	Level            int            `json:"level" gorm:"not null;default:1"`
	TotalPoints      int            `json:"total_points" gorm:"not null;default:0"`
	CurrentStreak    int            `json:"current_streak" gorm:"not null;default:0"`
	LastActivityDate *time.Time     `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
