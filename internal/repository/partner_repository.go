package repository

import (
	"fmt"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"gorm.io/gorm"
)

type PartnerRepository interface {
	CountCreatedBefore(t time.Time) (int64, error)
	CountCreatedBetween(start, end time.Time) (int64, error)
}

type partnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) CountCreatedBefore(t time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.Partner{}).
		Where("created_at < ?", t).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count partners: %w", result.Error)
	}

	return count, nil
}

func (r *partnerRepository) CountCreatedBetween(start, end time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.Partner{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count partners: %w", result.Error)
	}

	return count, nil
}
