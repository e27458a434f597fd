package dto

type UserDTO struct {
	ID            uint    `json:"id"`
	Email         string  `json:"email"`
	DisplayName   string  `json:"display_name"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	Level         int     `json:"level"`
	TotalPoints   int     `json:"total_points"`
	CurrentStreak int     `json:"current_streak"`
}

type UserStatsDTO struct {
	TestsCompleted    int `json:"tests_completed"`
	TotalStars        int `json:"total_stars"`
	PerfectScores     int `json:"perfect_scores"`
	CurrentLevel      int `json:"current_level"`
	PointsToNextLevel int `json:"points_to_next_level"`
}

type UserProfileDTO struct {
	User         UserDTO          `json:"user"`
	Stats        UserStatsDTO     `json:"stats"`
	Achievements []AchievementDTO `json:"achievements"`
}

type LeaderboardEntryDTO struct {
	Rank        int     `json:"rank"`
	UserID      uint    `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Level       int     `json:"level"`
	TotalPoints int     `json:"total_points"`
}

// LeaderboardDTO carries the top entries plus the caller's own rank and
// closest neighbors by points, so clients can render "you are here" context
// even when the caller is outside the top.
type LeaderboardDTO struct {
	Entries   []LeaderboardEntryDTO `json:"entries"`
	UserRank  *int                  `json:"user_rank,omitempty"`
	UserAbove *LeaderboardEntryDTO  `json:"user_above,omitempty"`
	UserBelow *LeaderboardEntryDTO  `json:"user_below,omitempty"`
}
