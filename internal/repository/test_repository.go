package repository

import (
	"lingoquiz-backend/internal/model"

	"gorm.io/gorm"
)

// TestWithQuestionCount carries a test plus its question count for listings.
type TestWithQuestionCount struct {
	model.Test
	QuestionCount int
}

type TestRepository interface {
	Create(test *model.Test) error
	Update(test *model.Test) error
	Delete(test *model.Test) error
	ReplaceQuestions(testID uint, questions []model.Question) error
	FindByID(id uint) (*model.Test, error)
	FindByIDWithQuestions(id uint) (*model.Test, error)
	FindPublished(categoryID *uint) ([]TestWithQuestionCount, error)
	FindAllForAdmin() ([]model.Test, error)
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	// GORM creates nested questions and answers in one go.
	return r.db.Create(test).Error
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}

// Delete soft-deletes the test; listings and lookups stop seeing it while
// existing progress rows keep their foreign key.
func (r *testRepository) Delete(test *model.Test) error {
	return r.db.Delete(test).Error
}

// ReplaceQuestions swaps out the full question set of a test.
func (r *testRepository) ReplaceQuestions(testID uint, questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []model.Question
		if err := tx.Where("test_id = ?", testID).Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if err := tx.Select("Answers").Delete(&existing[i]).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			questions[i].TestID = testID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// FindByIDWithQuestions loads the unredacted test definition the scoring
// engine consumes: questions in display order with their answer sets.
func (r *testRepository) FindByIDWithQuestions(id uint) (*model.Test, error) {
	var test model.Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.display_order ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindPublished(categoryID *uint) ([]TestWithQuestionCount, error) {
	var results []TestWithQuestionCount
	query := r.db.Model(&model.Test{}).
		Select("tests.*, (SELECT COUNT(*) FROM questions WHERE questions.test_id = tests.id AND questions.deleted_at IS NULL) as question_count").
		Where("tests.is_published = ?", true).
		Where("tests.deleted_at IS NULL")
	if categoryID != nil {
		query = query.Where("tests.category_id = ?", *categoryID)
	}
	err := query.Order("tests.display_order ASC").Scan(&results).Error
	return results, err
}

func (r *testRepository) FindAllForAdmin() ([]model.Test, error) {
	var tests []model.Test
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC")
		}).
		Preload("Questions.Answers").
		Order("tests.display_order ASC").
		Find(&tests).Error
	return tests, err
}
