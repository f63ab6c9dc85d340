package repository

import (
	"fmt"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	CountCreatedBefore(t time.Time) (int64, error)
	CountCreatedBetween(start, end time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CountCreatedBefore(t time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).
		Where("created_at < ?", t).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count users: %w", result.Error)
	}

	return count, nil
}

func (r *userRepository) CountCreatedBetween(start, end time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count users: %w", result.Error)
	}

	return count, nil
}
