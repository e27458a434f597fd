package service

import (
	"fmt"
	"testing"
	"time"

	"lingoquiz-backend/internal/dto"
	"lingoquiz-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// submission answers the first k questions correctly and the rest wrong.
func submission(userID uint, test *model.Test, correct int) dto.SubmitTestRequest {
	req := dto.SubmitTestRequest{UserID: userID}
	for i := range test.Questions {
		q := &test.Questions[i]
		var pick uint
		for j := range q.Answers {
			isCorrect := q.Answers[j].IsCorrect
			if (i < correct) == isCorrect {
				pick = q.Answers[j].ID
				break
			}
		}
		req.Answers = append(req.Answers, dto.SubmittedAnswerDTO{
			QuestionID:        q.ID,
			SelectedAnswerIDs: []uint{pick},
		})
	}
	return req
}

func TestSubmitTest_FirstSubmission(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 5))
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Score)
	assert.Equal(t, 5, resp.MaxScore)
	assert.Equal(t, 100, resp.Percentage)
	assert.Equal(t, 3, resp.Stars)
	assert.True(t, resp.IsNewBestScore)
	// first-time reward: test points plus 5 per star
	assert.Equal(t, 25, resp.PointsEarned)

	codes := make([]string, 0, len(resp.NewAchievements))
	for _, a := range resp.NewAchievements {
		codes = append(codes, a.Code)
	}
	assert.Equal(t, []string{model.AchievementFirstTest, model.AchievementPerfectScore}, codes)

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&progress).Error)
	assert.Equal(t, 5, progress.Score)
	assert.Equal(t, 5, progress.BestScore)
	assert.Equal(t, 3, progress.Stars)
	assert.Equal(t, 1, progress.AttemptsCount)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	// 25 earned plus 10 + 25 achievement bonuses
	assert.Equal(t, 60, updated.TotalPoints)
	assert.Equal(t, 1, updated.CurrentStreak)
	require.NotNil(t, updated.LastActivityDate)
}

func TestSubmitTest_RetakeKeepsCeilings(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(test.ID, submission(user.ID, test, 5))
	require.NoError(t, err)

	// Worse retake: 3/5 is 60%, one star.
	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 3))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, 1, resp.Stars)
	assert.False(t, resp.IsNewBestScore)
	assert.Equal(t, 2, resp.PointsEarned) // 2 per star on a retake
	assert.Empty(t, resp.NewAchievements)

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&progress).Error)
	assert.Equal(t, 3, progress.Score, "latest score always recorded")
	assert.Equal(t, 5, progress.BestScore, "best score never drops")
	assert.Equal(t, 3, progress.Stars, "stars never drop")
	assert.Equal(t, 2, progress.AttemptsCount)
}

func TestSubmitTest_RetakeImprovesBest(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(test.ID, submission(user.ID, test, 3))
	require.NoError(t, err)

	var first model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&first).Error)

	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 4))
	require.NoError(t, err)

	assert.True(t, resp.IsNewBestScore)
	// a new best pays the full first-time reward: 10 + 2 stars * 5
	assert.Equal(t, 20, resp.PointsEarned)

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&progress).Error)
	assert.Equal(t, 4, progress.BestScore)
	assert.Equal(t, 2, progress.Stars)
	assert.True(t, progress.CompletedAt.Equal(first.CompletedAt), "completion timestamp is immutable")
}

func TestSubmitTest_AttemptsCountMonotonic(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 3)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	for i := 0; i < 5; i++ {
		_, err := svc.SubmitTest(test.ID, submission(user.ID, test, i%4))
		require.NoError(t, err)
	}

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&progress).Error)
	assert.Equal(t, 5, progress.AttemptsCount)

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "one ledger row per user/test pair")
}

func TestSubmitTest_LevelUp(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")
	require.NoError(t, db.Model(user).Update("total_points", 90).Error)
	svc := newProgressService(t, db)

	// 3/5 earns 10 + 1 star * 5 = 15 points, crossing the 100-point tier.
	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 3))
	require.NoError(t, err)

	require.NotNil(t, resp.LevelUp)
	assert.Equal(t, 1, resp.LevelUp.PreviousLevel)
	assert.Equal(t, 2, resp.LevelUp.NewLevel)
	assert.Equal(t, "Student", resp.LevelUp.NewTitle)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 2, updated.Level)
	// 90 + 15 + 10 FIRST_TEST bonus
	assert.Equal(t, 115, updated.TotalPoints)
}

func TestSubmitTest_AchievementBonusCanLevelUp(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")
	// 2/5 scores zero stars on a first attempt: 10 earned, then the
	// 10-point FIRST_TEST bonus is what crosses the tier.
	require.NoError(t, db.Model(user).Update("total_points", 85).Error)
	svc := newProgressService(t, db)

	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 2))
	require.NoError(t, err)

	assert.Equal(t, 10, resp.PointsEarned)
	require.NotNil(t, resp.LevelUp)
	assert.Equal(t, 2, resp.LevelUp.NewLevel)
}

func TestSubmitTest_ConcurrentFirstSubmission(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 3)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	// Sneak a rival first submission in between the ledger read and the
	// insert, so the insert loses the race on the unique (user,test) index.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("rival_first_submission", func(tx *gorm.DB) {
		if raced {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.Progress); !ok {
			return
		}
		raced = true
		now := time.Now()
		rival := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO progress (user_id, test_id, score, max_score, stars, attempts_count, best_score, completed_at, last_attempt_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			user.ID, test.ID, 1, 3, 0, 1, 1, now, now,
		)
		require.NoError(t, rival.Error)
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("rival_first_submission")

	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 3))
	require.NoError(t, err)
	require.True(t, raced)

	assert.Equal(t, 3, resp.Score)

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Where("user_id = ? AND test_id = ?", user.ID, test.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "race resolves to a single ledger row")

	var progress model.Progress
	require.NoError(t, db.Where("user_id = ? AND test_id = ?", user.ID, test.ID).First(&progress).Error)
	assert.Equal(t, 3, progress.Score)
	assert.Equal(t, 3, progress.BestScore)
}

func TestSubmitTest_BonusCrossingExtendsLevelUp(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 5)
	user := seedUser(t, db, "a@example.com")

	// 9 prior completions and a 29-day streak queue up a large bonus:
	// FIRST_TEST + PERFECT_SCORE + STREAK_3/7/30 + TESTS_10 = 230 points.
	for i := 1; i <= 9; i++ {
		other := seedSelectTest(t, db, category.ID, fmt.Sprintf("Test %d", i), 1)
		require.NoError(t, db.Create(&model.Progress{
			UserID: user.ID, TestID: other.ID, Score: 1, MaxScore: 1, Stars: 3,
			AttemptsCount: 1, BestScore: 1, CompletedAt: time.Now(), LastAttemptAt: time.Now(),
		}).Error)
	}
	yesterday := time.Now().Add(-30 * time.Hour)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"total_points":       90,
		"current_streak":     29,
		"last_activity_date": yesterday,
	}).Error)
	svc := newProgressService(t, db)

	// The 25-point submission reward crosses 100; the bonus then crosses 300.
	resp, err := svc.SubmitTest(test.ID, submission(user.ID, test, 5))
	require.NoError(t, err)

	require.NotNil(t, resp.LevelUp)
	assert.Equal(t, 1, resp.LevelUp.PreviousLevel)
	assert.Equal(t, 3, resp.LevelUp.NewLevel)
	assert.Equal(t, "Connoisseur", resp.LevelUp.NewTitle)

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, 345, updated.TotalPoints)
	assert.Equal(t, resp.LevelUp.NewLevel, updated.Level, "response never understates the stored level")
	assert.Equal(t, 30, updated.CurrentStreak)
}

func TestSubmitTest_UnknownTest(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(999, dto.SubmitTestRequest{UserID: user.ID})
	assert.Error(t, err)
}

func TestSubmitTest_UnknownUserRollsBack(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 3)
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(test.ID, submission(42, test, 3))
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "failed submission leaves no ledger row")
}

func TestGetUserProgressSummary(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	animals := seedCategory(t, db, "Animals")
	colors := seedCategory(t, db, "Colors")
	testA := seedSelectTest(t, db, animals.ID, "Farm Animals", 5)
	seedSelectTest(t, db, animals.ID, "Wild Animals", 5)
	testC := seedSelectTest(t, db, colors.ID, "Primary Colors", 5)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(testA.ID, submission(user.ID, testA, 5)) // 3 stars
	require.NoError(t, err)
	_, err = svc.SubmitTest(testC.ID, submission(user.ID, testC, 3)) // 1 star
	require.NoError(t, err)

	summary, err := svc.GetUserProgressSummary(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalTests)
	assert.Equal(t, 2, summary.CompletedTests)
	assert.Equal(t, 4, summary.TotalStars)
	assert.Equal(t, 9, summary.MaxPossibleStars)

	require.Len(t, summary.Categories, 2)
	byName := map[string]dto.CategoryProgressDTO{}
	for _, c := range summary.Categories {
		byName[c.CategoryName] = c
	}
	assert.Equal(t, 2, byName["Animals"].TestsCount)
	assert.Equal(t, 1, byName["Animals"].CompletedCount)
	assert.Equal(t, 3, byName["Animals"].TotalStars)
	assert.Equal(t, 1, byName["Colors"].CompletedCount)
	assert.Equal(t, 1, byName["Colors"].TotalStars)
}

func TestGetUserProgress(t *testing.T) {
	db := newTestDB(t)
	seedAchievementCatalog(t, db)
	category := seedCategory(t, db, "Animals")
	test := seedSelectTest(t, db, category.ID, "Farm Animals", 3)
	user := seedUser(t, db, "a@example.com")
	svc := newProgressService(t, db)

	_, err := svc.SubmitTest(test.ID, submission(user.ID, test, 3))
	require.NoError(t, err)

	progress, err := svc.GetUserProgress(user.ID)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, test.ID, progress[0].TestID)
	assert.Equal(t, "Farm Animals", progress[0].TestTitle)
	assert.Equal(t, 3, progress[0].Score)
}
