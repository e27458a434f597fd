package dto

import "time"

type ProgressDTO struct {
	TestID        uint      `json:"test_id"`
	TestTitle     string    `json:"test_title"`
	Score         int       `json:"score"`
	MaxScore      int       `json:"max_score"`
	Stars         int       `json:"stars"`
	AttemptsCount int       `json:"attempts_count"`
	BestScore     int       `json:"best_score"`
	CompletedAt   time.Time `json:"completed_at"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

type ProgressSummaryDTO struct {
	TotalTests       int                   `json:"total_tests"`
	CompletedTests   int                   `json:"completed_tests"`
	TotalStars       int                   `json:"total_stars"`
	MaxPossibleStars int                   `json:"max_possible_stars"`
	Categories       []CategoryProgressDTO `json:"categories"`
}

type CategoryProgressDTO struct {
	CategoryID     uint   `json:"category_id"`
	CategoryName   string `json:"category_name"`
	TestsCount     int    `json:"tests_count"`
	CompletedCount int    `json:"completed_count"`
	TotalStars     int    `json:"total_stars"`
	MaxStars       int    `json:"max_stars"`
}
