package model

import "time"

// Achievement codes known to the evaluator, in evaluation order.
const (
	AchievementFirstTest    = "FIRST_TEST"
	AchievementPerfectScore = "PERFECT_SCORE"
	AchievementStreak3      = "STREAK_3"
	AchievementStreak7      = "STREAK_7"
	AchievementStreak30     = "STREAK_30"
	AchievementTests10      = "TESTS_10"
	AchievementTests50      = "TESTS_50"
)

type Achievement struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	Code         string  `json:"code" gorm:"not null;uniqueIndex"`
	Name         string  `json:"name" gorm:"not null"`
	Description  string  `json:"description" gorm:"not null"`
	IconURL      *string `json:"icon_url,omitempty"`
	PointsReward int     `json:"points_reward" gorm:"not null;default:0"`
	IsHidden     bool    `json:"is_hidden" gorm:"not null;default:false"` // secret until earned
}

// UserAchievement is the append-only award row. The composite primary key
// makes a duplicate award a constraint violation, which callers swallow.
type UserAchievement struct {
	UserID        uint      `gorm:"primaryKey" json:"user_id"`
	AchievementID uint      `gorm:"primaryKey" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" gorm:"not null"`
}
