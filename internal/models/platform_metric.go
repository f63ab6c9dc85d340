package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformMetric stores one aggregated window at platform scope.
// Exactly one row exists per (granularity, window_start); re-running a
// window upserts the same row. Realtime windows are cache-only and never
// reach this table.
type PlatformMetric struct {
	BaseModel

	Granularity string    `gorm:"uniqueIndex:idx_platform_metrics_window,priority:1;not null" json:"granularity"`
	WindowStart time.Time `gorm:"uniqueIndex:idx_platform_metrics_window,priority:2;not null" json:"window_start"`
	WindowEnd   time.Time `gorm:"not null" json:"window_end"`

	// Volume metrics
	TotalTransactions       int             `gorm:"default:0" json:"total_transactions"`
	TotalRevenue            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_revenue"`
	TotalSavings            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_savings"`
	AverageTransactionValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"average_transaction_value"`

	// Cardinality metrics
	UniqueUsers    int `gorm:"default:0" json:"unique_users"`
	UniquePartners int `gorm:"default:0" json:"unique_partners"`

	// Distribution metrics
	PeakHour            int               `gorm:"default:0" json:"peak_hour"`
	CategoryBreakdown   CategoryBreakdown `gorm:"type:jsonb" json:"category_breakdown"`
	GeographicBreakdown GeoBreakdown      `gorm:"type:jsonb" json:"geographic_breakdown"`
	TopCategories       TopCategoryList   `gorm:"type:jsonb" json:"top_categories"`
	TopPartners         TopPartnerList    `gorm:"type:jsonb" json:"top_partners"`

	// Comparative metrics; growth is a percentage vs. the prior window of
	// the same granularity. GrowthUndefined marks the documented sentinel
	// case (no prior activity, current activity present).
	GrowthRate      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"growth_rate"`
	GrowthUndefined bool            `gorm:"default:false" json:"growth_undefined"`

	// Retention at platform scope: a transacting user counts as returning
	// when they completed any transaction on the platform before the window.
	ReturningUsers        int             `gorm:"default:0" json:"returning_users"`
	CustomerRetentionRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"customer_retention_rate"`

	// Daily-only metrics
	ActiveUsers        int             `gorm:"default:0" json:"active_users"`
	NewUsers           int             `gorm:"default:0" json:"new_users"`
	UserEngagementRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"user_engagement_rate"`
	PartnerGrowthRate  decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"partner_growth_rate"`
}

func (*PlatformMetric) TableName() string {
	return "platform_metrics"
}
