package repository

import (
	"errors"

	"lingoquiz-backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindTopByPoints(limit int) ([]model.User, error)
	CountWithMorePoints(points int) (int64, error)
	FindUserAbove(points int) (*model.User, error)
	FindUserBelow(points int) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.Order("total_points DESC, id ASC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *userRepository) CountWithMorePoints(points int) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("total_points > ?", points).Count(&count).Error
	return count, err
}

// FindUserAbove returns the closest user with strictly more points, or nil
// when nobody is ahead.
func (r *userRepository) FindUserAbove(points int) (*model.User, error) {
	var user model.User
	err := r.db.Where("total_points > ?", points).
		Order("total_points ASC, id ASC").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserBelow returns the closest user with strictly fewer points, or nil
// when nobody trails.
func (r *userRepository) FindUserBelow(points int) (*model.User, error) {
	var user model.User
	err := r.db.Where("total_points < ?", points).
		Order("total_points DESC, id ASC").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
