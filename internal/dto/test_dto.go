package dto

// CategoryDTO lists a category with per-user completion stats when a user is known.
type CategoryDTO struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	IconURL        *string `json:"icon_url,omitempty"`
	TestsCount     int     `json:"tests_count"`
	CompletedCount int     `json:"completed_count"`
	TotalStars     int     `json:"total_stars"`
}

// TestSummaryDTO is used for listing published tests available to users.
type TestSummaryDTO struct {
	ID             uint                 `json:"id"`
	CategoryID     uint                 `json:"category_id"`
	Title          string               `json:"title"`
	Description    *string              `json:"description,omitempty"`
	ThumbnailURL   *string              `json:"thumbnail_url,omitempty"`
	Difficulty     string               `json:"difficulty"`
	PointsReward   int                  `json:"points_reward"`
	QuestionsCount int                  `json:"questions_count"`
	UserProgress   *TestProgressSummary `json:"user_progress,omitempty"`
}

// TestProgressSummary is the per-user slice of a test listing entry.
type TestProgressSummary struct {
	Completed bool `json:"completed"`
	BestScore int  `json:"best_score"`
	MaxScore  int  `json:"max_score"`
	Stars     int  `json:"stars"`
}

// TestDetailDTO carries the full test for a user about to take it.
// Answers are redacted: correctness flags never leave the admin surface.
type TestDetailDTO struct {
	ID               uint          `json:"id"`
	CategoryID       uint          `json:"category_id"`
	Title            string        `json:"title"`
	Description      *string       `json:"description,omitempty"`
	ThumbnailURL     *string       `json:"thumbnail_url,omitempty"`
	Difficulty       string        `json:"difficulty"`
	PointsReward     int           `json:"points_reward"`
	TimeLimitSeconds *int          `json:"time_limit_seconds,omitempty"`
	Questions        []QuestionDTO `json:"questions"`
}

type QuestionDTO struct {
	ID       uint        `json:"id"`
	Type     string      `json:"type"`
	Text     *string     `json:"text,omitempty"`
	AudioURL *string     `json:"audio_url,omitempty"`
	ImageURL *string     `json:"image_url,omitempty"`
	Points   int         `json:"points"`
	Answers  []AnswerDTO `json:"answers"`
}

// AnswerDTO deliberately has no IsCorrect field.
type AnswerDTO struct {
	ID          uint    `json:"id"`
	Text        *string `json:"text,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	AudioURL    *string `json:"audio_url,omitempty"`
	MatchTarget *string `json:"match_target,omitempty"`
}
