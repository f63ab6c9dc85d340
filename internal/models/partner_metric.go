package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerMetric stores one aggregated window scoped to a single partner.
// One row per (partner_id, granularity, window_start), upserted on re-run.
type PartnerMetric struct {
	BaseModel

	PartnerID   string    `gorm:"type:uuid;uniqueIndex:idx_partner_metrics_window,priority:1;not null" json:"partner_id"`
	Granularity string    `gorm:"uniqueIndex:idx_partner_metrics_window,priority:2;not null" json:"granularity"`
	WindowStart time.Time `gorm:"uniqueIndex:idx_partner_metrics_window,priority:3;not null" json:"window_start"`
	WindowEnd   time.Time `gorm:"not null" json:"window_end"`

	// Volume metrics
	TotalTransactions       int             `gorm:"default:0" json:"total_transactions"`
	TotalRevenue            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_revenue"`
	TotalSavings            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_savings"`
	AverageTransactionValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"average_transaction_value"`

	// Customer metrics. New vs. returning is decided by the customer's
	// earliest completed transaction with this partner, not platform-wide.
	UniqueCustomers       int             `gorm:"default:0" json:"unique_customers"`
	NewCustomers          int             `gorm:"default:0" json:"new_customers"`
	ReturningCustomers    int             `gorm:"default:0" json:"returning_customers"`
	CustomerRetentionRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"customer_retention_rate"`
	AvgCustomerValue      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"avg_customer_value"`

	// Distribution metrics
	PeakHour            int               `gorm:"default:0" json:"peak_hour"`
	PeakHours           IntList           `gorm:"type:jsonb" json:"peak_hours"`
	CategoryBreakdown   CategoryBreakdown `gorm:"type:jsonb" json:"category_breakdown"`
	GeographicBreakdown GeoBreakdown      `gorm:"type:jsonb" json:"geographic_breakdown"`
	TopCategories       TopCategoryList   `gorm:"type:jsonb" json:"top_categories"`

	// Comparative metrics
	GrowthRate      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"growth_rate"`
	GrowthUndefined bool            `gorm:"default:false" json:"growth_undefined"`
}

func (*PartnerMetric) TableName() string {
	return "partner_metrics"
}
