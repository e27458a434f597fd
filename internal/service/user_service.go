package service

import (
	"fmt"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

type UserService interface {
	GetProfile(userID uint) (*dto.UserProfileDTO, error)
	GetLeaderboard(currentUserID *uint, limit int) (*dto.LeaderboardDTO, error)
}

type userService struct {
	userRepo        repository.UserRepository
	progressRepo    repository.ProgressRepository
	achievementRepo repository.AchievementRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	achievementRepo repository.AchievementRepository,
) UserService {
	return &userService{
		userRepo:        userRepo,
		progressRepo:    progressRepo,
		achievementRepo: achievementRepo,
	}
}

func (s *userService) GetProfile(userID uint) (*dto.UserProfileDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("GetProfile: user not found")
		return nil, fmt.Errorf("user not found with ID %d: %w", userID, err)
	}

	testsCompleted, err := s.progressRepo.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error counting completed tests: %w", err)
	}
	totalStars, err := s.progressRepo.SumStarsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error summing stars: %w", err)
	}
	perfectScores, err := s.progressRepo.CountPerfectByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error counting perfect scores: %w", err)
	}

	earned, err := s.achievementRepo.FindEarnedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching achievements: %w", err)
	}
	achievements := make([]dto.AchievementDTO, 0, len(earned))
	for i := range earned {
		achievements = append(achievements, toAchievementDTO(&earned[i], true))
	}

	profile := &dto.UserProfileDTO{
		Stats: dto.UserStatsDTO{
			TestsCompleted:    int(testsCompleted),
			TotalStars:        totalStars,
			PerfectScores:     int(perfectScores),
			CurrentLevel:      LevelForPoints(user.TotalPoints),
			PointsToNextLevel: PointsToNextLevel(user.TotalPoints),
		},
		Achievements: achievements,
	}
	if err := copier.Copy(&profile.User, user); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetProfile: failed to copy user to DTO")
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return profile, nil
}

func (s *userService) GetLeaderboard(currentUserID *uint, limit int) (*dto.LeaderboardDTO, error) {
	top, err := s.userRepo.FindTopByPoints(limit)
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: repository error")
		return nil, fmt.Errorf("error fetching leaderboard: %w", err)
	}

	board := &dto.LeaderboardDTO{
		Entries: make([]dto.LeaderboardEntryDTO, 0, len(top)),
	}
	for i := range top {
		board.Entries = append(board.Entries, dto.LeaderboardEntryDTO{
			Rank:        i + 1,
			UserID:      top[i].ID,
			DisplayName: top[i].DisplayName,
			AvatarURL:   top[i].AvatarURL,
			Level:       top[i].Level,
			TotalPoints: top[i].TotalPoints,
		})
	}

	if currentUserID != nil {
		user, err := s.userRepo.FindByID(*currentUserID)
		if err != nil {
			// an unknown caller still gets the board, just without rank context
			return board, nil
		}

		for _, entry := range board.Entries {
			if entry.UserID == user.ID {
				rank := entry.Rank
				board.UserRank = &rank
				break
			}
		}
		if board.UserRank == nil {
			ahead, err := s.userRepo.CountWithMorePoints(user.TotalPoints)
			if err != nil {
				return nil, fmt.Errorf("error ranking user %d: %w", user.ID, err)
			}
			rank := int(ahead) + 1
			board.UserRank = &rank
		}

		above, err := s.userRepo.FindUserAbove(user.TotalPoints)
		if err != nil {
			return nil, fmt.Errorf("error fetching neighbor above user %d: %w", user.ID, err)
		}
		if above != nil {
			board.UserAbove = leaderboardEntry(above, *board.UserRank-1)
		}
		below, err := s.userRepo.FindUserBelow(user.TotalPoints)
		if err != nil {
			return nil, fmt.Errorf("error fetching neighbor below user %d: %w", user.ID, err)
		}
		if below != nil {
			board.UserBelow = leaderboardEntry(below, *board.UserRank+1)
		}
	}
	return board, nil
}

func leaderboardEntry(user *model.User, rank int) *dto.LeaderboardEntryDTO {
	return &dto.LeaderboardEntryDTO{
		Rank:        rank,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Level:       user.Level,
		TotalPoints: user.TotalPoints,
	}
}
