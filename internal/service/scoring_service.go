package service

import (
	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"
)

// Star thresholds as score percentages.
const (
	threeStarPercent = 95
	twoStarPercent   = 80
	oneStarPercent   = 60
)

// ScoringResult is the outcome of grading one submission against a test.
type ScoringResult struct {
	Score      int
	MaxScore   int
	Percentage int // floor(score*100/maxScore), 0 when the test has no questions
	Stars      int // 0-3
}

// ScoringService grades a submission against an unredacted test definition.
// It is pure: no side effects, deterministic, safe to re-run.
type ScoringService interface {
	Score(test *model.Test, answers []dto.SubmittedAnswerDTO) ScoringResult
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

func (s *scoringService) Score(test *model.Test, answers []dto.SubmittedAnswerDTO) ScoringResult {
	// Submitted entries for questions outside the test are never looked up,
	// which is how they get ignored.
	byQuestion := make(map[uint]*dto.SubmittedAnswerDTO, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	score := 0
	maxScore := 0
	for i := range test.Questions {
		question := &test.Questions[i]
		maxScore += question.Points

		submitted, ok := byQuestion[question.ID]
		if !ok {
			continue // unanswered scores zero but still counts toward maxScore
		}
		if questionCorrect(question, submitted) {
			score += question.Points
		}
	}

	percentage := 0
	if maxScore > 0 {
		percentage = score * 100 / maxScore
	}

	return ScoringResult{
		Score:      score,
		MaxScore:   maxScore,
		Percentage: percentage,
		Stars:      starsForPercentage(percentage),
	}
}

func questionCorrect(question *model.Question, submitted *dto.SubmittedAnswerDTO) bool {
	if question.Type == model.QuestionDragDropImage {
		return dragDropCorrect(question, submitted.DragDropMatches)
	}
	return selectionCorrect(question, submitted.SelectedAnswerIDs)
}

// dragDropCorrect checks that every correct answer was dropped on exactly its
// match target. Mappings for non-correct answers are ignored, and mappings
// referencing unknown answer ids simply never match anything.
func dragDropCorrect(question *model.Question, matches map[uint]string) bool {
	for i := range question.Answers {
		answer := &question.Answers[i]
		if !answer.IsCorrect {
			continue
		}
		got, mapped := matches[answer.ID]
		if answer.MatchTarget == nil {
			// an unplaceable correct answer counts as matched only when left alone
			if mapped {
				return false
			}
			continue
		}
		if !mapped || got != *answer.MatchTarget {
			return false
		}
	}
	return true
}

// selectionCorrect is all-or-nothing set equality between the submitted ids
// and the correct-answer ids. Partial overlap scores zero.
func selectionCorrect(question *model.Question, selected []uint) bool {
	correct := make(map[uint]struct{})
	for _, answer := range question.Answers {
		if answer.IsCorrect {
			correct[answer.ID] = struct{}{}
		}
	}

	seen := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := correct[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(correct)
}

func starsForPercentage(percentage int) int {
	switch {
	case percentage >= threeStarPercent:
		return 3
	case percentage >= twoStarPercent:
		return 2
	case percentage >= oneStarPercent:
		return 1
	default:
		return 0
	}
}
