package repository

import (
	"fmt"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	// ListCompletedInWindow returns every completed transaction with
	// start <= created_at < end, partner context preloaded. A datastore
	// failure is returned as an error, never as an empty result.
	ListCompletedInWindow(start, end time.Time) ([]*models.Transaction, error)

	// FirstCompletedAtByPartner returns the earliest completed transaction
	// time each of the given users ever had with the partner. Only users
	// present in the current window are passed in, which keeps the lookup
	// bounded.
	FirstCompletedAtByPartner(partnerID string, userIDs []string) (map[string]time.Time, error)

	// FirstCompletedAt is the platform-wide variant, across all partners.
	FirstCompletedAt(userIDs []string) (map[string]time.Time, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListCompletedInWindow(start, end time.Time) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	result := r.db.
		Where("status = ?", models.TransactionStatusCompleted).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Preload("Partner").
		Find(&transactions)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list transactions in window: %w", result.Error)
	}

	return transactions, nil
}

type firstTransactionRow struct {
	UserID  string    `gorm:"column:user_id"`
	FirstAt time.Time `gorm:"column:first_at"`
}

func (r *transactionRepository) FirstCompletedAtByPartner(partnerID string, userIDs []string) (map[string]time.Time, error) {
	if len(userIDs) == 0 {
		return map[string]time.Time{}, nil
	}

	var rows []firstTransactionRow
	result := r.db.Model(&models.Transaction{}).
		Select("user_id, MIN(created_at) AS first_at").
		Where("partner_id = ?", partnerID).
		Where("user_id IN ?", userIDs).
		Where("status = ?", models.TransactionStatusCompleted).
		Group("user_id").
		Scan(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch first transaction dates: %w", result.Error)
	}

	return firstTransactionMap(rows), nil
}

func (r *transactionRepository) FirstCompletedAt(userIDs []string) (map[string]time.Time, error) {
	if len(userIDs) == 0 {
		return map[string]time.Time{}, nil
	}

	var rows []firstTransactionRow
	result := r.db.Model(&models.Transaction{}).
		Select("user_id, MIN(created_at) AS first_at").
		Where("user_id IN ?", userIDs).
		Where("status = ?", models.TransactionStatusCompleted).
		Group("user_id").
		Scan(&rows)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch first transaction dates: %w", result.Error)
	}

	return firstTransactionMap(rows), nil
}

func firstTransactionMap(rows []firstTransactionRow) map[string]time.Time {
	first := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		first[row.UserID] = row.FirstAt
	}
	return first
}
