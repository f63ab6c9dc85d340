package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusRefunded  = "refunded"
)

// Transaction is owned by the payments service. This subsystem only ever
// reads it; completed transactions are immutable.
type Transaction struct {
	ID        string   `gorm:"type:uuid;primaryKey" json:"id"`
	PartnerID string   `gorm:"type:uuid;index;not null" json:"partner_id"`
	Partner   *Partner `gorm:"foreignKey:PartnerID" json:"-"`
	UserID    string   `gorm:"type:uuid;index;not null" json:"user_id"`

	// Monetary fields are exact decimals, never floats.
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	SavingsAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"savings_amount"`

	Status   string `gorm:"index;not null" json:"status"`
	Category string `gorm:"index" json:"category"`

	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

func (*Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// EffectiveCategory falls back to the partner's category when the
// transaction itself was recorded without one.
func (t *Transaction) EffectiveCategory() string {
	if t.Category != "" {
		return t.Category
	}
	if t.Partner != nil && t.Partner.Category != "" {
		return t.Partner.Category
	}
	return "uncategorized"
}

// City is the geographic bucket key, taken from the partner record.
func (t *Transaction) City() string {
	if t.Partner != nil && t.Partner.LocationCity != "" {
		return t.Partner.LocationCity
	}
	return "unknown"
}
