package dto

// SubmittedAnswerDTO is one answered question within a submission.
// SelectedAnswerIDs is compared as a set; DragDropMatches maps answer id to
// the target the user dropped it on (drag-drop questions only).
type SubmittedAnswerDTO struct {
	QuestionID        uint            `json:"question_id" binding:"required"`
	SelectedAnswerIDs []uint          `json:"selected_answer_ids"`
	DragDropMatches   map[uint]string `json:"drag_drop_matches,omitempty"`
}

// SubmitTestRequest is the single entry point into the progression engine.
type SubmitTestRequest struct {
	UserID           uint                 `json:"user_id" binding:"required"` // from client until auth middleware lands
	Answers          []SubmittedAnswerDTO `json:"answers" binding:"required,dive"`
	TimeSpentSeconds *int                 `json:"time_spent_seconds,omitempty"`
}

type SubmitTestResponse struct {
	Score           int              `json:"score"`
	MaxScore        int              `json:"max_score"`
	Percentage      int              `json:"percentage"`
	Stars           int              `json:"stars"`
	PointsEarned    int              `json:"points_earned"`
	IsNewBestScore  bool             `json:"is_new_best_score"`
	NewAchievements []AchievementDTO `json:"new_achievements"`
	LevelUp         *LevelUpDTO      `json:"level_up,omitempty"`
}

type LevelUpDTO struct {
	PreviousLevel int    `json:"previous_level"`
	NewLevel      int    `json:"new_level"`
	NewTitle      string `json:"new_title"`
}
