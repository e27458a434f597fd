package service

import (
	"fmt"
	"time"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// achievementStats is the snapshot a rule is evaluated against.
type achievementStats struct {
	TestsCompleted int64
	CurrentStreak  int
	LastPercentage int
}

// achievementRules is evaluated top to bottom; every qualifying rule not yet
// earned is awarded within the same pass.
var achievementRules = []struct {
	Code      string
	Qualifies func(achievementStats) bool
}{
	{model.AchievementFirstTest, func(s achievementStats) bool { return s.TestsCompleted >= 1 }},
	{model.AchievementPerfectScore, func(s achievementStats) bool { return s.LastPercentage == 100 }},
	{model.AchievementStreak3, func(s achievementStats) bool { return s.CurrentStreak >= 3 }},
	{model.AchievementStreak7, func(s achievementStats) bool { return s.CurrentStreak >= 7 }},
	{model.AchievementStreak30, func(s achievementStats) bool { return s.CurrentStreak >= 30 }},
	{model.AchievementTests10, func(s achievementStats) bool { return s.TestsCompleted >= 10 }},
	{model.AchievementTests50, func(s achievementStats) bool { return s.TestsCompleted >= 50 }},
}

// DefaultAchievementCatalog seeds the rule codes the evaluator knows about.
func DefaultAchievementCatalog() []model.Achievement {
	return []model.Achievement{
		{Code: model.AchievementFirstTest, Name: "First Steps", Description: "Complete your first test", PointsReward: 10},
		{Code: model.AchievementPerfectScore, Name: "Perfectionist", Description: "Score 100% on a test", PointsReward: 25},
		{Code: model.AchievementStreak3, Name: "Warming Up", Description: "Practice 3 days in a row", PointsReward: 15},
		{Code: model.AchievementStreak7, Name: "On Fire", Description: "Practice 7 days in a row", PointsReward: 30},
		{Code: model.AchievementStreak30, Name: "Unstoppable", Description: "Practice 30 days in a row", PointsReward: 100, IsHidden: true},
		{Code: model.AchievementTests10, Name: "Getting Serious", Description: "Complete 10 tests", PointsReward: 50},
		{Code: model.AchievementTests50, Name: "Scholar", Description: "Complete 50 tests", PointsReward: 150, IsHidden: true},
	}
}

type AchievementService interface {
	ListAchievements(userID *uint) ([]dto.AchievementDTO, error)
	GetUserAchievements(userID uint) ([]dto.AchievementDTO, error)
	// EvaluateTx runs the rule set inside the submission transaction and
	// returns the achievements newly awarded in this pass. Re-running with
	// unchanged stats returns nothing.
	EvaluateTx(tx *gorm.DB, user *model.User, lastAttemptPercentage int, now time.Time) ([]model.Achievement, error)
}

type achievementService struct {
	achievementRepo repository.AchievementRepository
}

func NewAchievementService(achievementRepo repository.AchievementRepository) AchievementService {
	return &achievementService{achievementRepo: achievementRepo}
}

func (s *achievementService) ListAchievements(userID *uint) ([]dto.AchievementDTO, error) {
	visible, err := s.achievementRepo.FindVisible()
	if err != nil {
		log.Error().Err(err).Msg("ListAchievements: failed to load visible achievements")
		return nil, fmt.Errorf("error fetching achievements: %w", err)
	}

	earnedIDs := make(map[uint]struct{})
	var earned []model.Achievement
	if userID != nil {
		earned, err = s.achievementRepo.FindEarnedByUser(*userID)
		if err != nil {
			log.Error().Err(err).Uint("userID", *userID).Msg("ListAchievements: failed to load earned achievements")
			return nil, fmt.Errorf("error fetching earned achievements: %w", err)
		}
		for _, a := range earned {
			earnedIDs[a.ID] = struct{}{}
		}
	}

	dtos := make([]dto.AchievementDTO, 0, len(visible))
	for i := range visible {
		_, ok := earnedIDs[visible[i].ID]
		dtos = append(dtos, toAchievementDTO(&visible[i], ok))
	}
	// hidden achievements show up only once earned
	for i := range earned {
		if earned[i].IsHidden {
			dtos = append(dtos, toAchievementDTO(&earned[i], true))
		}
	}
	return dtos, nil
}

func (s *achievementService) GetUserAchievements(userID uint) ([]dto.AchievementDTO, error) {
	earned, err := s.achievementRepo.FindEarnedByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserAchievements: repository error")
		return nil, fmt.Errorf("error fetching achievements for user %d: %w", userID, err)
	}
	dtos := make([]dto.AchievementDTO, 0, len(earned))
	for i := range earned {
		dtos = append(dtos, toAchievementDTO(&earned[i], true))
	}
	return dtos, nil
}

func (s *achievementService) EvaluateTx(tx *gorm.DB, user *model.User, lastAttemptPercentage int, now time.Time) ([]model.Achievement, error) {
	var testsCompleted int64
	if err := tx.Model(&model.Progress{}).Where("user_id = ?", user.ID).Count(&testsCompleted).Error; err != nil {
		return nil, fmt.Errorf("count completed tests for user %d: %w", user.ID, err)
	}

	stats := achievementStats{
		TestsCompleted: testsCompleted,
		CurrentStreak:  user.CurrentStreak,
		LastPercentage: lastAttemptPercentage,
	}

	var earnedCodes []string
	err := tx.Model(&model.Achievement{}).
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", user.ID).
		Pluck("achievements.code", &earnedCodes).Error
	if err != nil {
		return nil, fmt.Errorf("load earned achievement codes for user %d: %w", user.ID, err)
	}
	earnedSet := make(map[string]struct{}, len(earnedCodes))
	for _, code := range earnedCodes {
		earnedSet[code] = struct{}{}
	}

	var qualifying []string
	for _, rule := range achievementRules {
		if _, already := earnedSet[rule.Code]; already {
			continue
		}
		if rule.Qualifies(stats) {
			qualifying = append(qualifying, rule.Code)
		}
	}
	if len(qualifying) == 0 {
		return nil, nil
	}

	var candidates []model.Achievement
	if err := tx.Where("code IN ?", qualifying).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("load achievement catalog entries: %w", err)
	}
	byCode := make(map[string]model.Achievement, len(candidates))
	for _, a := range candidates {
		byCode[a.Code] = a
	}

	var awarded []model.Achievement
	for _, code := range qualifying {
		achievement, ok := byCode[code]
		if !ok {
			log.Warn().Str("code", code).Msg("EvaluateTx: rule qualifies but catalog entry is missing, skipping")
			continue
		}
		award := model.UserAchievement{UserID: user.ID, AchievementID: achievement.ID, EarnedAt: now}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&award)
		if res.Error != nil {
			return nil, fmt.Errorf("award achievement %s to user %d: %w", code, user.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			// a concurrent submission awarded it first; harmless no-op
			continue
		}
		awarded = append(awarded, achievement)
	}
	return awarded, nil
}

func toAchievementDTO(a *model.Achievement, earned bool) dto.AchievementDTO {
	var d dto.AchievementDTO
	if err := copier.Copy(&d, a); err != nil {
		log.Error().Err(err).Str("code", a.Code).Msg("failed to copy achievement to DTO")
	}
	d.Earned = earned
	return d
}
