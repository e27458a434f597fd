package dto

type AchievementDTO struct {
	ID           uint    `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	IconURL      *string `json:"icon_url,omitempty"`
	PointsReward int     `json:"points_reward"`
	Earned       bool    `json:"earned"`
}
