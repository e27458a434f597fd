package service

import (
	"errors"
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

// ProgressService owns the submission pipeline: scoring, the progress-ledger
// merge, streak and point updates, and achievement evaluation — all applied
// inside one transaction per submission.
type ProgressService interface {
	SubmitTest(testID uint, req dto.SubmitTestRequest) (*dto.SubmitTestResponse, error)
	GetUserProgress(userID uint) ([]dto.ProgressDTO, error)
	GetUserProgressSummary(userID uint) (*dto.ProgressSummaryDTO, error)
}

type progressService struct {
	tests        *repository.TestDefinitionCache
	testRepo     repository.TestRepository
	progressRepo repository.ProgressRepository
	categoryRepo repository.CategoryRepository
	scoring      ScoringService
	achievements AchievementService
	db           *gorm.DB
}

func NewProgressService(
	tests *repository.TestDefinitionCache,
	testRepo repository.TestRepository,
	progressRepo repository.ProgressRepository,
	categoryRepo repository.CategoryRepository,
	scoring ScoringService,
	achievements AchievementService,
	db *gorm.DB,
) ProgressService {
	return &progressService{
		tests:        tests,
		testRepo:     testRepo,
		progressRepo: progressRepo,
		categoryRepo: categoryRepo,
		scoring:      scoring,
		achievements: achievements,
		db:           db,
	}
}

func (s *progressService) SubmitTest(testID uint, req dto.SubmitTestRequest) (*dto.SubmitTestResponse, error) {
	test, err := s.tests.GetTestWithQuestions(testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("SubmitTest: test not found")
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}

	result := s.scoring.Score(test, req.Answers)
	now := time.Now()

	var resp *dto.SubmitTestResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		_, isNewBest, err := s.mergeAttempt(tx, req.UserID, test, result, req.TimeSpentSeconds, now)
		if err != nil {
			return err
		}

		var user model.User
		if err := lockForUpdate(tx).First(&user, req.UserID).Error; err != nil {
			return fmt.Errorf("load user %d: %w", req.UserID, err)
		}

		ApplyStreak(&user, now)

		pointsEarned := result.Stars * 2 // retake reward
		if isNewBest {
			pointsEarned = test.PointsReward + result.Stars*5
		}
		levelUp := ApplyPoints(&user, pointsEarned)

		awarded, err := s.achievements.EvaluateTx(tx, &user, result.Percentage, now)
		if err != nil {
			return err
		}
		bonusPoints := 0
		for _, a := range awarded {
			bonusPoints += a.PointsReward
		}
		if bonusPoints > 0 {
			// The achievement bonus is a second, independent point addition.
			// When both additions cross tiers the response reports the full
			// span, so NewLevel always matches the stored level.
			if bonusLevelUp := ApplyPoints(&user, bonusPoints); bonusLevelUp != nil {
				if levelUp == nil {
					levelUp = bonusLevelUp
				} else {
					levelUp.NewLevel = bonusLevelUp.NewLevel
					levelUp.NewTitle = bonusLevelUp.NewTitle
				}
			}
		}

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("save user %d: %w", user.ID, err)
		}

		newAchievements := make([]dto.AchievementDTO, 0, len(awarded))
		for i := range awarded {
			newAchievements = append(newAchievements, toAchievementDTO(&awarded[i], true))
		}

		resp = &dto.SubmitTestResponse{
			Score:           result.Score,
			MaxScore:        result.MaxScore,
			Percentage:      result.Percentage,
			Stars:           result.Stars,
			PointsEarned:    pointsEarned,
			IsNewBestScore:  isNewBest,
			NewAchievements: newAchievements,
			LevelUp:         levelUp,
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Uint("userID", req.UserID).Msg("SubmitTest: transaction failed")
		return nil, err
	}
	return resp, nil
}

// mergeAttempt folds a scoring result into the per-(user,test) ledger row.
// Creation races on the unique (user,test) index are retried once as an
// update; the savepoint from the nested transaction keeps the outer
// transaction usable after the failed insert.
func (s *progressService) mergeAttempt(tx *gorm.DB, userID uint, test *model.Test, result ScoringResult, timeSpent *int, now time.Time) (*model.Progress, bool, error) {
	var merged *model.Progress
	var isNewBest bool

	for attempt := 0; attempt < 2; attempt++ {
		err := tx.Transaction(func(inner *gorm.DB) error {
			var existing model.Progress
			err := lockForUpdate(inner).
				Where("user_id = ? AND test_id = ?", userID, test.ID).
				First(&existing).Error
			switch {
			case err == nil:
				isNewBest = result.Score > existing.BestScore
				existing.Score = result.Score
				existing.MaxScore = result.MaxScore
				if result.Stars > existing.Stars {
					existing.Stars = result.Stars
				}
				if result.Score > existing.BestScore {
					existing.BestScore = result.Score
				}
				existing.AttemptsCount++
				existing.TimeSpentSeconds = timeSpent
				existing.LastAttemptAt = now
				if err := inner.Save(&existing).Error; err != nil {
					return fmt.Errorf("update progress for user %d test %d: %w", userID, test.ID, err)
				}
				merged = &existing
				return nil

			case errors.Is(err, gorm.ErrRecordNotFound):
				fresh := model.Progress{
					UserID:           userID,
					TestID:           test.ID,
					Score:            result.Score,
					MaxScore:         result.MaxScore,
					Stars:            result.Stars,
					AttemptsCount:    1,
					BestScore:        result.Score,
					TimeSpentSeconds: timeSpent,
					CompletedAt:      now,
					LastAttemptAt:    now,
				}
				if err := inner.Create(&fresh).Error; err != nil {
					return fmt.Errorf("create progress for user %d test %d: %w", userID, test.ID, err)
				}
				isNewBest = true
				merged = &fresh
				return nil

			default:
				return fmt.Errorf("load progress for user %d test %d: %w", userID, test.ID, err)
			}
		})
		if err == nil {
			return merged, isNewBest, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt == 0 {
			// concurrent first submission won the insert; re-read and merge
			log.Info().Uint("userID", userID).Uint("testID", test.ID).Msg("mergeAttempt: lost progress insert race, retrying as update")
			continue
		}
		return nil, false, err
	}
	return nil, false, fmt.Errorf("progress merge for user %d test %d kept conflicting", userID, test.ID)
}

func (s *progressService) GetUserProgress(userID uint) ([]dto.ProgressDTO, error) {
	progress, err := s.progressRepo.FindByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserProgress: repository error")
		return nil, fmt.Errorf("error fetching progress for user %d: %w", userID, err)
	}

	dtos := make([]dto.ProgressDTO, 0, len(progress))
	for i := range progress {
		var d dto.ProgressDTO
		if err := copier.Copy(&d, &progress[i]); err != nil {
			log.Error().Err(err).Uint("testID", progress[i].TestID).Msg("GetUserProgress: failed to copy progress to DTO")
			continue
		}
		d.TestTitle = progress[i].Test.Title
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func (s *progressService) GetUserProgressSummary(userID uint) (*dto.ProgressSummaryDTO, error) {
	categories, err := s.categoryRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	tests, err := s.testRepo.FindPublished(nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}
	progress, err := s.progressRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching progress for user %d: %w", userID, err)
	}

	progressByTest := make(map[uint]*model.Progress, len(progress))
	totalStars := 0
	for i := range progress {
		progressByTest[progress[i].TestID] = &progress[i]
		totalStars += progress[i].Stars
	}

	testsByCategory := make(map[uint][]*repository.TestWithQuestionCount)
	for i := range tests {
		testsByCategory[tests[i].CategoryID] = append(testsByCategory[tests[i].CategoryID], &tests[i])
	}

	summary := &dto.ProgressSummaryDTO{
		TotalTests:       len(tests),
		CompletedTests:   len(progress),
		TotalStars:       totalStars,
		MaxPossibleStars: len(tests) * 3,
		Categories:       make([]dto.CategoryProgressDTO, 0, len(categories)),
	}
	for _, category := range categories {
		categoryTests := testsByCategory[category.ID]
		completed := 0
		stars := 0
		for _, t := range categoryTests {
			if p, ok := progressByTest[t.ID]; ok {
				completed++
				stars += p.Stars
			}
		}
		summary.Categories = append(summary.Categories, dto.CategoryProgressDTO{
			CategoryID:     category.ID,
			CategoryName:   category.Name,
			TestsCount:     len(categoryTests),
			CompletedCount: completed,
			TotalStars:     stars,
			MaxStars:       len(categoryTests) * 3,
		})
	}
	return summary, nil
}

// lockForUpdate takes a row lock where the dialect supports it. The sqlite
// used in tests serializes writers itself and has no FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
