package dto

// AdminAnswerRequest is used within AdminQuestionRequest for test authoring.
type AdminAnswerRequest struct {
	Text         *string `json:"text"`
	ImageURL     *string `json:"image_url"`
	AudioURL     *string `json:"audio_url"`
	IsCorrect    bool    `json:"is_correct"`
	DisplayOrder int     `json:"display_order"`
	MatchTarget  *string `json:"match_target"` // required for drag_drop_image correct answers
}

// AdminQuestionRequest is used within TestCreateRequest for admin test creation.
type AdminQuestionRequest struct {
	Type         string               `json:"type" binding:"required,oneof=drag_drop_image audio_select image_select text_select fill_blank"`
	Text         *string              `json:"text"`
	AudioURL     *string              `json:"audio_url"`
	ImageURL     *string              `json:"image_url"`
	DisplayOrder int                  `json:"display_order"`
	Points       int                  `json:"points" binding:"omitempty,min=1"`
	Answers      []AdminAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// TestCreateRequest is for admin to create a new test with all its questions.
type TestCreateRequest struct {
	CategoryID       uint                   `json:"category_id" binding:"required"`
	Title            string                 `json:"title" binding:"required"`
	Description      *string                `json:"description"`
	ThumbnailURL     *string                `json:"thumbnail_url"`
	Difficulty       string                 `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	PointsReward     int                    `json:"points_reward" binding:"omitempty,min=0"`
	TimeLimitSeconds *int                   `json:"time_limit_seconds"`
	IsPublished      bool                   `json:"is_published"`
	DisplayOrder     int                    `json:"display_order"`
	Questions        []AdminQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

// TestUpdateRequest updates test metadata; questions are replaced wholesale
// when provided.
type TestUpdateRequest struct {
	Title            *string                `json:"title"`
	Description      *string                `json:"description"`
	ThumbnailURL     *string                `json:"thumbnail_url"`
	Difficulty       *string                `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	PointsReward     *int                   `json:"points_reward" binding:"omitempty,min=0"`
	TimeLimitSeconds *int                   `json:"time_limit_seconds"`
	IsPublished      *bool                  `json:"is_published"`
	DisplayOrder     *int                   `json:"display_order"`
	Questions        []AdminQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

// CategoryCreateRequest is for admin category creation.
type CategoryCreateRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	IconURL      *string `json:"icon_url"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder int     `json:"display_order"`
}

// AdminAnswerDTO includes grading fields hidden from the user surface.
type AdminAnswerDTO struct {
	ID           uint    `json:"id"`
	Text         *string `json:"text,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	AudioURL     *string `json:"audio_url,omitempty"`
	IsCorrect    bool    `json:"is_correct"`
	DisplayOrder int     `json:"display_order"`
	MatchTarget  *string `json:"match_target,omitempty"`
}

type AdminQuestionDTO struct {
	ID           uint             `json:"id"`
	Type         string           `json:"type"`
	Text         *string          `json:"text,omitempty"`
	AudioURL     *string          `json:"audio_url,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	DisplayOrder int              `json:"display_order"`
	Points       int              `json:"points"`
	Answers      []AdminAnswerDTO `json:"answers"`
}

type AdminTestDetailDTO struct {
	ID               uint               `json:"id"`
	CategoryID       uint               `json:"category_id"`
	Title            string             `json:"title"`
	Description      *string            `json:"description,omitempty"`
	ThumbnailURL     *string            `json:"thumbnail_url,omitempty"`
	Difficulty       string             `json:"difficulty"`
	PointsReward     int                `json:"points_reward"`
	TimeLimitSeconds *int               `json:"time_limit_seconds,omitempty"`
	IsPublished      bool               `json:"is_published"`
	DisplayOrder     int                `json:"display_order"`
	Questions        []AdminQuestionDTO `json:"questions"`
}
