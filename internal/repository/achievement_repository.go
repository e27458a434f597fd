package repository

import (
	"lingoquiz-backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository interface {
	FindVisible() ([]model.Achievement, error)
	FindEarnedByUser(userID uint) ([]model.Achievement, error)
	EnsureCatalog(catalog []model.Achievement) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) FindVisible() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("is_hidden = ?", false).Order("id ASC").Find(&achievements).Error
	return achievements, err
}

func (r *achievementRepository) FindEarnedByUser(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.earned_at ASC").
		Find(&achievements).Error
	return achievements, err
}

// EnsureCatalog inserts any catalog entries whose code is not yet present.
// Existing rows keep their configured rewards.
func (r *achievementRepository) EnsureCatalog(catalog []model.Achievement) error {
	for i := range catalog {
		err := r.db.Where(model.Achievement{Code: catalog[i].Code}).
			FirstOrCreate(&catalog[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}
