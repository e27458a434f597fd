package model

import "time"

// Progress is the per-(user,test) ledger row. The composite unique index is
// what guarantees a single row per pair under concurrent first submissions.
type Progress struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_test"`
	TestID           uint      `json:"test_id" gorm:"not null;uniqueIndex:idx_progress_user_test"`
	Test             Test      `json:"test,omitempty" gorm:"foreignKey:TestID"`
	Score            int       `json:"score" gorm:"not null;default:0"`                           // latest attempt
	MaxScore         int       `json:"max_score" gorm:"not null"`                                 // latest attempt
	Stars            int       `json:"stars" gorm:"not null;default:0"`                           // ceiling across attempts
	AttemptsCount    int       `json:"attempts_count" gorm:"not null;default:1"`                  // +1 per submission, never reset
	BestScore        int       `json:"best_score" gorm:"not null;default:0"`                      // ceiling across attempts
	TimeSpentSeconds *int      `json:"time_spent_seconds,omitempty"`                              // latest attempt
	CompletedAt      time.Time `json:"completed_at" gorm:"not null"`                              // first completion, immutable
	LastAttemptAt    time.Time `json:"last_attempt_at" gorm:"not null"`
}

func (Progress) TableName() string { return "progress" }
