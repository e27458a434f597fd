package service

import (
	"testing"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// buildSelectTest makes a test of n single-select questions worth 1 point
// each. Answer ids are deterministic: question i has answers 10i+1..10i+4,
// with 10i+1 correct.
func buildSelectTest(n int) *model.Test {
	test := &model.Test{ID: 1, Title: "Animals", PointsReward: 10}
	for i := 1; i <= n; i++ {
		q := model.Question{
			ID:     uint(i),
			Type:   model.QuestionImageSelect,
			Points: 1,
		}
		for j := 1; j <= 4; j++ {
			q.Answers = append(q.Answers, model.Answer{
				ID:        uint(i*10 + j),
				IsCorrect: j == 1,
			})
		}
		test.Questions = append(test.Questions, q)
	}
	return test
}

func selectAnswer(questionID, answerID uint) dto.SubmittedAnswerDTO {
	return dto.SubmittedAnswerDTO{QuestionID: questionID, SelectedAnswerIDs: []uint{answerID}}
}

func TestScore_AllCorrect(t *testing.T) {
	svc := NewScoringService()
	test := buildSelectTest(5)

	answers := []dto.SubmittedAnswerDTO{
		selectAnswer(1, 11), selectAnswer(2, 21), selectAnswer(3, 31),
		selectAnswer(4, 41), selectAnswer(5, 51),
	}
	result := svc.Score(test, answers)

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 5, result.MaxScore)
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, 3, result.Stars)
}

func TestScore_PartiallyCorrect(t *testing.T) {
	svc := NewScoringService()
	test := buildSelectTest(5)

	// 3 of 5 correct; questions 4 and 5 answered wrong.
	answers := []dto.SubmittedAnswerDTO{
		selectAnswer(1, 11), selectAnswer(2, 21), selectAnswer(3, 31),
		selectAnswer(4, 42), selectAnswer(5, 53),
	}
	result := svc.Score(test, answers)

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 60, result.Percentage)
	assert.Equal(t, 1, result.Stars)
}

func TestScore_UnansweredCountsTowardMax(t *testing.T) {
	svc := NewScoringService()
	test := buildSelectTest(5)

	result := svc.Score(test, []dto.SubmittedAnswerDTO{selectAnswer(1, 11)})

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 5, result.MaxScore)
	assert.Equal(t, 20, result.Percentage)
	assert.Equal(t, 0, result.Stars)
}

func TestScore_UnknownQuestionIgnored(t *testing.T) {
	svc := NewScoringService()
	test := buildSelectTest(2)

	answers := []dto.SubmittedAnswerDTO{
		selectAnswer(1, 11),
		selectAnswer(2, 21),
		selectAnswer(999, 11), // not part of the test
	}
	result := svc.Score(test, answers)

	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 2, result.MaxScore)
	assert.Equal(t, 100, result.Percentage)
}

func TestScore_EmptyTest(t *testing.T) {
	svc := NewScoringService()
	test := &model.Test{ID: 1}

	result := svc.Score(test, nil)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.MaxScore)
	assert.Equal(t, 0, result.Percentage)
	assert.Equal(t, 0, result.Stars)
}

func TestScore_MultiSelectSetEquality(t *testing.T) {
	svc := NewScoringService()
	test := &model.Test{ID: 1, Questions: []model.Question{{
		ID:     1,
		Type:   model.QuestionTextSelect,
		Points: 2,
		Answers: []model.Answer{
			{ID: 1, IsCorrect: true},
			{ID: 2, IsCorrect: true},
			{ID: 3, IsCorrect: false},
			{ID: 4, IsCorrect: false},
		},
	}}}

	cases := []struct {
		name     string
		selected []uint
		want     int
	}{
		{"exact set", []uint{1, 2}, 2},
		{"order independent", []uint{2, 1}, 2},
		{"duplicates collapse", []uint{1, 2, 2}, 2},
		{"subset scores zero", []uint{1}, 0},
		{"superset scores zero", []uint{1, 2, 3}, 0},
		{"disjoint scores zero", []uint{3, 4}, 0},
		{"empty selection scores zero", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.Score(test, []dto.SubmittedAnswerDTO{
				{QuestionID: 1, SelectedAnswerIDs: tc.selected},
			})
			assert.Equal(t, tc.want, result.Score)
		})
	}
}

func TestScore_DragDrop(t *testing.T) {
	svc := NewScoringService()
	test := &model.Test{ID: 1, Questions: []model.Question{{
		ID:     1,
		Type:   model.QuestionDragDropImage,
		Points: 3,
		Answers: []model.Answer{
			{ID: 1, IsCorrect: true, MatchTarget: strPtr("cat")},
			{ID: 2, IsCorrect: true, MatchTarget: strPtr("dog")},
			{ID: 3, IsCorrect: false}, // distractor
		},
	}}}

	cases := []struct {
		name    string
		matches map[uint]string
		want    int
	}{
		{"all targets hit", map[uint]string{1: "cat", 2: "dog"}, 3},
		{"extra distractor mapping ignored", map[uint]string{1: "cat", 2: "dog", 3: "cat"}, 3},
		{"unknown answer id ignored", map[uint]string{1: "cat", 2: "dog", 99: "dog"}, 3},
		{"swapped targets", map[uint]string{1: "dog", 2: "cat"}, 0},
		{"missing mapping", map[uint]string{1: "cat"}, 0},
		{"no mappings", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.Score(test, []dto.SubmittedAnswerDTO{
				{QuestionID: 1, DragDropMatches: tc.matches},
			})
			assert.Equal(t, tc.want, result.Score)
		})
	}
}

func TestScore_DragDropNilTargetCorrectOnlyWhenUnmapped(t *testing.T) {
	svc := NewScoringService()
	test := &model.Test{ID: 1, Questions: []model.Question{{
		ID:     1,
		Type:   model.QuestionDragDropImage,
		Points: 1,
		Answers: []model.Answer{
			{ID: 1, IsCorrect: true, MatchTarget: nil},
		},
	}}}

	unmapped := svc.Score(test, []dto.SubmittedAnswerDTO{{QuestionID: 1}})
	assert.Equal(t, 1, unmapped.Score)

	mapped := svc.Score(test, []dto.SubmittedAnswerDTO{
		{QuestionID: 1, DragDropMatches: map[uint]string{1: "anywhere"}},
	})
	assert.Equal(t, 0, mapped.Score)
}

func TestStarsForPercentage(t *testing.T) {
	cases := []struct {
		percentage int
		want       int
	}{
		{100, 3}, {95, 3}, {94, 2}, {80, 2}, {79, 1}, {60, 1}, {59, 0}, {0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, starsForPercentage(tc.percentage), "percentage %d", tc.percentage)
	}
}

func TestScore_PercentageFloors(t *testing.T) {
	svc := NewScoringService()
	test := buildSelectTest(3)

	// 2/3 correct is 66.67%, floored to 66.
	answers := []dto.SubmittedAnswerDTO{
		selectAnswer(1, 11), selectAnswer(2, 21), selectAnswer(3, 32),
	}
	result := svc.Score(test, answers)

	assert.Equal(t, 66, result.Percentage)
	assert.Equal(t, 1, result.Stars)
}
