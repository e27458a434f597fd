package service

import (
	"fmt"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// AdminTestService is the authoring surface. Its DTOs carry the grading
// fields (IsCorrect, MatchTarget) that the user surface redacts.
type AdminTestService interface {
	CreateTest(req dto.TestCreateRequest) (*dto.AdminTestDetailDTO, error)
	UpdateTest(testID uint, req dto.TestUpdateRequest) (*dto.AdminTestDetailDTO, error)
	DeleteTest(testID uint) error
	GetTest(testID uint) (*dto.AdminTestDetailDTO, error)
	ListTests() ([]dto.AdminTestDetailDTO, error)
	CreateCategory(req dto.CategoryCreateRequest) (*dto.CategoryDTO, error)
}

type adminTestService struct {
	testRepo     repository.TestRepository
	categoryRepo repository.CategoryRepository
	tests        *repository.TestDefinitionCache
}

func NewAdminTestService(
	testRepo repository.TestRepository,
	categoryRepo repository.CategoryRepository,
	tests *repository.TestDefinitionCache,
) AdminTestService {
	return &adminTestService{testRepo: testRepo, categoryRepo: categoryRepo, tests: tests}
}

func (s *adminTestService) CreateTest(req dto.TestCreateRequest) (*dto.AdminTestDetailDTO, error) {
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, fmt.Errorf("category not found with ID %d: %w", req.CategoryID, err)
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	difficulty := model.DifficultyEasy
	if req.Difficulty != "" {
		difficulty = model.Difficulty(req.Difficulty)
	}
	pointsReward := req.PointsReward
	if pointsReward == 0 {
		pointsReward = 10
	}

	test := model.Test{
		CategoryID:       req.CategoryID,
		Title:            req.Title,
		Description:      req.Description,
		ThumbnailURL:     req.ThumbnailURL,
		Difficulty:       difficulty,
		PointsReward:     pointsReward,
		TimeLimitSeconds: req.TimeLimitSeconds,
		IsPublished:      req.IsPublished,
		DisplayOrder:     req.DisplayOrder,
		Questions:        questions,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Msg("CreateTest: failed to create test")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}
	return s.GetTest(test.ID)
}

func (s *adminTestService) UpdateTest(testID uint, req dto.TestUpdateRequest) (*dto.AdminTestDetailDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}

	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = req.Description
	}
	if req.ThumbnailURL != nil {
		test.ThumbnailURL = req.ThumbnailURL
	}
	if req.Difficulty != nil {
		test.Difficulty = model.Difficulty(*req.Difficulty)
	}
	if req.PointsReward != nil {
		test.PointsReward = *req.PointsReward
	}
	if req.TimeLimitSeconds != nil {
		test.TimeLimitSeconds = req.TimeLimitSeconds
	}
	if req.IsPublished != nil {
		test.IsPublished = *req.IsPublished
	}
	if req.DisplayOrder != nil {
		test.DisplayOrder = *req.DisplayOrder
	}
	if err := s.testRepo.Update(test); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("UpdateTest: failed to update test")
		return nil, fmt.Errorf("database error updating test: %w", err)
	}

	if req.Questions != nil {
		questions, err := buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.testRepo.ReplaceQuestions(testID, questions); err != nil {
			log.Error().Err(err).Uint("testID", testID).Msg("UpdateTest: failed to replace questions")
			return nil, fmt.Errorf("database error replacing questions: %w", err)
		}
	}

	// scoring must never see a stale definition
	s.tests.Invalidate(testID)
	return s.GetTest(testID)
}

func (s *adminTestService) DeleteTest(testID uint) error {
	test, err := s.testRepo.FindByID(testID)
	if err != nil {
		return fmt.Errorf("test not found with ID %d: %w", testID, err)
	}
	if err := s.testRepo.Delete(test); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("DeleteTest: failed to delete test")
		return fmt.Errorf("database error deleting test: %w", err)
	}
	s.tests.Invalidate(testID)
	return nil
}

func (s *adminTestService) GetTest(testID uint) (*dto.AdminTestDetailDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("test not found with ID %d: %w", testID, err)
	}
	detail := toAdminTestDTO(test)
	return &detail, nil
}

func (s *adminTestService) ListTests() ([]dto.AdminTestDetailDTO, error) {
	tests, err := s.testRepo.FindAllForAdmin()
	if err != nil {
		log.Error().Err(err).Msg("ListTests: repository error")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}
	dtos := make([]dto.AdminTestDetailDTO, 0, len(tests))
	for i := range tests {
		dtos = append(dtos, toAdminTestDTO(&tests[i]))
	}
	return dtos, nil
}

func (s *adminTestService) CreateCategory(req dto.CategoryCreateRequest) (*dto.CategoryDTO, error) {
	category := model.Category{
		Name:         req.Name,
		Description:  req.Description,
		IconURL:      req.IconURL,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.categoryRepo.Create(&category); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateCategory: failed to create category")
		return nil, fmt.Errorf("database error creating category: %w", err)
	}
	return &dto.CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		IconURL:     category.IconURL,
	}, nil
}

// buildQuestions validates authoring input against the closed question-type
// enum and drag-drop invariants, then maps it to models.
func buildQuestions(reqs []dto.AdminQuestionRequest) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(reqs))
	for i, qReq := range reqs {
		qType, err := model.ParseQuestionType(qReq.Type)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}

		points := qReq.Points
		if points == 0 {
			points = 1
		}

		question := model.Question{
			Type:         qType,
			Text:         qReq.Text,
			AudioURL:     qReq.AudioURL,
			ImageURL:     qReq.ImageURL,
			DisplayOrder: qReq.DisplayOrder,
			Points:       points,
		}
		hasCorrect := false
		for _, aReq := range qReq.Answers {
			if aReq.IsCorrect {
				hasCorrect = true
				if qType == model.QuestionDragDropImage && (aReq.MatchTarget == nil || *aReq.MatchTarget == "") {
					return nil, fmt.Errorf("question %d: correct answers of a %s question require a match_target", i+1, qType)
				}
			}
			question.Answers = append(question.Answers, model.Answer{
				Text:         aReq.Text,
				ImageURL:     aReq.ImageURL,
				AudioURL:     aReq.AudioURL,
				IsCorrect:    aReq.IsCorrect,
				DisplayOrder: aReq.DisplayOrder,
				MatchTarget:  aReq.MatchTarget,
			})
		}
		if !hasCorrect {
			return nil, fmt.Errorf("question %d has no correct answer", i+1)
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func toAdminTestDTO(test *model.Test) dto.AdminTestDetailDTO {
	detail := dto.AdminTestDetailDTO{
		ID:               test.ID,
		CategoryID:       test.CategoryID,
		Title:            test.Title,
		Description:      test.Description,
		ThumbnailURL:     test.ThumbnailURL,
		Difficulty:       string(test.Difficulty),
		PointsReward:     test.PointsReward,
		TimeLimitSeconds: test.TimeLimitSeconds,
		IsPublished:      test.IsPublished,
		DisplayOrder:     test.DisplayOrder,
		Questions:        make([]dto.AdminQuestionDTO, 0, len(test.Questions)),
	}
	for i := range test.Questions {
		q := &test.Questions[i]
		qd := dto.AdminQuestionDTO{
			ID:           q.ID,
			Type:         string(q.Type),
			Text:         q.Text,
			AudioURL:     q.AudioURL,
			ImageURL:     q.ImageURL,
			DisplayOrder: q.DisplayOrder,
			Points:       q.Points,
			Answers:      make([]dto.AdminAnswerDTO, 0, len(q.Answers)),
		}
		for j := range q.Answers {
			a := &q.Answers[j]
			qd.Answers = append(qd.Answers, dto.AdminAnswerDTO{
				ID:           a.ID,
				Text:         a.Text,
				ImageURL:     a.ImageURL,
				AudioURL:     a.AudioURL,
				IsCorrect:    a.IsCorrect,
				DisplayOrder: a.DisplayOrder,
				MatchTarget:  a.MatchTarget,
			})
		}
		detail.Questions = append(detail.Questions, qd)
	}
	return detail
}
