package service

import (
	"fmt"
	"testing"
	"time"

	"lingoquiz-backend/internal/model"
	"lingoquiz-backend/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
// TranslateError mirrors the production gorm config so duplicate-key
// handling behaves the same.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.User{},
		&model.Progress{},
		&model.Achievement{},
		&model.UserAchievement{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, DisplayName: "Tester", Level: 1}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

// seedSelectTest persists a published test of n single-select questions
// worth 1 point each, first answer correct.
func seedSelectTest(t *testing.T, db *gorm.DB, categoryID uint, title string, n int) *model.Test {
	t.Helper()
	test := &model.Test{
		CategoryID:   categoryID,
		Title:        title,
		Difficulty:   model.DifficultyEasy,
		PointsReward: 10,
		IsPublished:  true,
	}
	for i := 1; i <= n; i++ {
		q := model.Question{
			Type:         model.QuestionImageSelect,
			Points:       1,
			DisplayOrder: i,
		}
		for j := 1; j <= 4; j++ {
			q.Answers = append(q.Answers, model.Answer{
				Text:         strPtr(fmt.Sprintf("option %d", j)),
				IsCorrect:    j == 1,
				DisplayOrder: j,
			})
		}
		test.Questions = append(test.Questions, q)
	}
	require.NoError(t, db.Create(test).Error)
	return test
}

func seedAchievementCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, repository.NewAchievementRepository(db).EnsureCatalog(DefaultAchievementCatalog()))
}

// newProgressService wires a full service stack over the given database.
func newProgressService(t *testing.T, db *gorm.DB) ProgressService {
	t.Helper()
	testRepo := repository.NewTestRepository(db)
	cache := repository.NewTestDefinitionCache(testRepo, time.Minute)
	return NewProgressService(
		cache,
		testRepo,
		repository.NewProgressRepository(db),
		repository.NewCategoryRepository(db),
		NewScoringService(),
		NewAchievementService(repository.NewAchievementRepository(db)),
		db,
	)
}
