package repository

import (
	"fmt"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlatformMetricRepository interface {
	// Upsert writes the row for (granularity, window_start), overwriting an
	// existing one. Re-running a window must never create a duplicate.
	Upsert(metric *models.PlatformMetric) error
	GetByWindow(granularity string, windowStart time.Time) (*models.PlatformMetric, error)
	// GetPrevious returns the latest persisted row strictly before
	// windowStart, or nil when none exists (e.g. first run).
	GetPrevious(granularity string, windowStart time.Time) (*models.PlatformMetric, error)
	DeleteOlderThan(granularity string, cutoff time.Time) (int64, error)
}

type platformMetricRepository struct {
	db *gorm.DB
}

func NewPlatformMetricRepository(db *gorm.DB) PlatformMetricRepository {
	return &platformMetricRepository{db: db}
}

func (r *platformMetricRepository) Upsert(metric *models.PlatformMetric) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "granularity"}, {Name: "window_start"}},
		UpdateAll: true,
	}).Create(metric)

	if result.Error != nil {
		return fmt.Errorf("failed to upsert platform metric: %w", result.Error)
	}
	return nil
}

func (r *platformMetricRepository) GetByWindow(granularity string, windowStart time.Time) (*models.PlatformMetric, error) {
	var metric models.PlatformMetric
	result := r.db.
		Where("granularity = ? AND window_start = ?", granularity, windowStart).
		First(&metric)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform metric: %w", result.Error)
	}

	return &metric, nil
}

func (r *platformMetricRepository) GetPrevious(granularity string, windowStart time.Time) (*models.PlatformMetric, error) {
	var metric models.PlatformMetric
	result := r.db.
		Where("granularity = ? AND window_start < ?", granularity, windowStart).
		Order("window_start DESC").
		First(&metric)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous platform metric: %w", result.Error)
	}

	return &metric, nil
}

func (r *platformMetricRepository) DeleteOlderThan(granularity string, cutoff time.Time) (int64, error) {
	result := r.db.
		Where("granularity = ? AND window_start < ?", granularity, cutoff).
		Delete(&models.PlatformMetric{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old platform metrics: %w", result.Error)
	}

	return result.RowsAffected, nil
}

type PartnerMetricRepository interface {
	Upsert(metric *models.PartnerMetric) error
	GetByWindow(partnerID, granularity string, windowStart time.Time) (*models.PartnerMetric, error)
	GetPrevious(partnerID, granularity string, windowStart time.Time) (*models.PartnerMetric, error)
	DeleteOlderThan(granularity string, cutoff time.Time) (int64, error)
}

type partnerMetricRepository struct {
	db *gorm.DB
}

func NewPartnerMetricRepository(db *gorm.DB) PartnerMetricRepository {
	return &partnerMetricRepository{db: db}
}

func (r *partnerMetricRepository) Upsert(metric *models.PartnerMetric) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partner_id"}, {Name: "granularity"}, {Name: "window_start"}},
		UpdateAll: true,
	}).Create(metric)

	if result.Error != nil {
		return fmt.Errorf("failed to upsert partner metric: %w", result.Error)
	}
	return nil
}

func (r *partnerMetricRepository) GetByWindow(partnerID, granularity string, windowStart time.Time) (*models.PartnerMetric, error) {
	var metric models.PartnerMetric
	result := r.db.
		Where("partner_id = ? AND granularity = ? AND window_start = ?", partnerID, granularity, windowStart).
		First(&metric)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner metric: %w", result.Error)
	}

	return &metric, nil
}

func (r *partnerMetricRepository) GetPrevious(partnerID, granularity string, windowStart time.Time) (*models.PartnerMetric, error) {
	var metric models.PartnerMetric
	result := r.db.
		Where("partner_id = ? AND granularity = ? AND window_start < ?", partnerID, granularity, windowStart).
		Order("window_start DESC").
		First(&metric)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous partner metric: %w", result.Error)
	}

	return &metric, nil
}

func (r *partnerMetricRepository) DeleteOlderThan(granularity string, cutoff time.Time) (int64, error) {
	result := r.db.
		Where("granularity = ? AND window_start < ?", granularity, cutoff).
		Delete(&models.PartnerMetric{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old partner metrics: %w", result.Error)
	}

	return result.RowsAffected, nil
}
