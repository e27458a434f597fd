package repository

import (
	"lingoquiz-backend/internal/model"

	"gorm.io/gorm"
)

// ProgressRepository covers the read side of the progress ledger. The
// read-modify-write merge runs inside the submission transaction in the
// service layer, not here.
type ProgressRepository interface {
	FindByUser(userID uint) ([]model.Progress, error)
	FindByUserAndTest(userID, testID uint) (*model.Progress, error)
	FindByUserAndCategory(userID, categoryID uint) ([]model.Progress, error)
	CountByUser(userID uint) (int64, error)
	SumStarsByUser(userID uint) (int, error)
	CountPerfectByUser(userID uint) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) FindByUser(userID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.db.Preload("Test").
		Where("user_id = ?", userID).
		Order("last_attempt_at DESC").
		Find(&progress).Error
	return progress, err
}

func (r *progressRepository) FindByUserAndTest(userID, testID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("user_id = ? AND test_id = ?", userID, testID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) FindByUserAndCategory(userID, categoryID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.db.
		Joins("JOIN tests ON tests.id = progress.test_id").
		Where("progress.user_id = ? AND tests.category_id = ?", userID, categoryID).
		Find(&progress).Error
	return progress, err
}

func (r *progressRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Progress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *progressRepository) SumStarsByUser(userID uint) (int, error) {
	var total int64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(stars), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *progressRepository) CountPerfectByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ? AND max_score > 0 AND best_score = max_score", userID).
		Count(&count).Error
	return count, err
}
