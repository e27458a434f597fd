package service

import (
	"fmt"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// TestService is the user-facing catalog. Everything it returns is redacted:
// correctness flags stay on the admin surface and inside the scoring engine.
type TestService interface {
	GetCategories(userID *uint) ([]dto.CategoryDTO, error)
	GetTests(categoryID *uint, userID *uint) ([]dto.TestSummaryDTO, error)
	GetTestDetails(testID uint) (*dto.TestDetailDTO, error)
}

type testService struct {
	tests        *repository.TestDefinitionCache
	testRepo     repository.TestRepository
	categoryRepo repository.CategoryRepository
	progressRepo repository.ProgressRepository
}

func NewTestService(
	tests *repository.TestDefinitionCache,
	testRepo repository.TestRepository,
	categoryRepo repository.CategoryRepository,
	progressRepo repository.ProgressRepository,
) TestService {
	return &testService{
		tests:        tests,
		testRepo:     testRepo,
		categoryRepo: categoryRepo,
		progressRepo: progressRepo,
	}
}

func (s *testService) GetCategories(userID *uint) ([]dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.FindActive()
	if err != nil {
		log.Error().Err(err).Msg("GetCategories: repository error")
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	tests, err := s.testRepo.FindPublished(nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	testCountByCategory := make(map[uint]int)
	for _, t := range tests {
		testCountByCategory[t.CategoryID]++
	}

	dtos := make([]dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		d := dto.CategoryDTO{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			IconURL:     category.IconURL,
			TestsCount:  testCountByCategory[category.ID],
		}
		if userID != nil {
			progress, err := s.progressRepo.FindByUserAndCategory(*userID, category.ID)
			if err != nil {
				return nil, fmt.Errorf("error fetching progress for category %d: %w", category.ID, err)
			}
			d.CompletedCount = len(progress)
			for _, p := range progress {
				d.TotalStars += p.Stars
			}
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func (s *testService) GetTests(categoryID *uint, userID *uint) ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindPublished(categoryID)
	if err != nil {
		log.Error().Err(err).Msg("GetTests: repository error")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	progressByTest := make(map[uint]*model.Progress)
	if userID != nil {
		progress, err := s.progressRepo.FindByUser(*userID)
		if err != nil {
			return nil, fmt.Errorf("error fetching progress for user %d: %w", *userID, err)
		}
		for i := range progress {
			progressByTest[progress[i].TestID] = &progress[i]
		}
	}

	dtos := make([]dto.TestSummaryDTO, 0, len(tests))
	for i := range tests {
		t := &tests[i]
		d := dto.TestSummaryDTO{
			ID:             t.ID,
			CategoryID:     t.CategoryID,
			Title:          t.Title,
			Description:    t.Description,
			ThumbnailURL:   t.ThumbnailURL,
			Difficulty:     string(t.Difficulty),
			PointsReward:   t.PointsReward,
			QuestionsCount: t.QuestionCount,
		}
		if p, ok := progressByTest[t.ID]; ok {
			d.UserProgress = &dto.TestProgressSummary{
				Completed: true,
				BestScore: p.BestScore,
				MaxScore:  p.MaxScore,
				Stars:     p.Stars,
			}
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}

func (s *testService) GetTestDetails(testID uint) (*dto.TestDetailDTO, error) {
	test, err := s.tests.GetTestWithQuestions(testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("GetTestDetails: test not found")
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}

	detail := &dto.TestDetailDTO{
		ID:               test.ID,
		CategoryID:       test.CategoryID,
		Title:            test.Title,
		Description:      test.Description,
		ThumbnailURL:     test.ThumbnailURL,
		Difficulty:       string(test.Difficulty),
		PointsReward:     test.PointsReward,
		TimeLimitSeconds: test.TimeLimitSeconds,
		Questions:        make([]dto.QuestionDTO, 0, len(test.Questions)),
	}
	for i := range test.Questions {
		q := &test.Questions[i]
		qd := dto.QuestionDTO{
			ID:       q.ID,
			Type:     string(q.Type),
			Text:     q.Text,
			AudioURL: q.AudioURL,
			ImageURL: q.ImageURL,
			Points:   q.Points,
			Answers:  make([]dto.AnswerDTO, 0, len(q.Answers)),
		}
		for j := range q.Answers {
			a := &q.Answers[j]
			// IsCorrect intentionally never copied here
			qd.Answers = append(qd.Answers, dto.AnswerDTO{
				ID:          a.ID,
				Text:        a.Text,
				ImageURL:    a.ImageURL,
				AudioURL:    a.AudioURL,
				MatchTarget: a.MatchTarget,
			})
		}
		detail.Questions = append(detail.Questions, qd)
	}
	return detail, nil
}
