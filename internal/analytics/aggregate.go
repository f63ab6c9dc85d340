package analytics

import (
	"log"
	"sort"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"github.com/shopspring/decimal"
)

// RawAggregate is the full computed result for one window and one scope.
// PartnerID is empty at platform scope. Nothing is written anywhere until
// a RawAggregate is complete.
type RawAggregate struct {
	Window    Window
	PartnerID string

	TotalTransactions       int
	TotalRevenue            decimal.Decimal
	TotalSavings            decimal.Decimal
	AverageTransactionValue decimal.Decimal

	UniqueUsers    int
	UniquePartners int

	HourCounts [24]int
	PeakHour   int
	PeakHours  []int

	CategoryBreakdown   models.CategoryBreakdown
	GeographicBreakdown models.GeoBreakdown
	TopCategories       models.TopCategoryList
	TopPartners         models.TopPartnerList

	// Customer split by transaction history within the aggregate's scope:
	// partner-level history at partner scope, platform-level at platform
	// scope. NewCustomers + ReturningCustomers always equals UniqueUsers.
	NewCustomers       int
	ReturningCustomers int

	// SkippedRecords counts transactions dropped as computation faults.
	SkippedRecords int
}

// UniqueCustomers is the partner-scope name for the distinct-user count.
func (a *RawAggregate) UniqueCustomers() int {
	return a.UniqueUsers
}

type Aggregator struct {
	topLimit int
}

func NewAggregator(topLimit int) *Aggregator {
	if topLimit <= 0 {
		topLimit = 5
	}
	return &Aggregator{topLimit: topLimit}
}

// Compute folds the transaction set into a RawAggregate in a single pass.
// It is a pure in-memory computation; the caller supplies everything,
// including firstCompleted, the earliest completed-transaction time per user
// within the aggregate's scope (used for the new/returning split).
//
// Malformed records are logged with their id and skipped; the rest of the
// window still aggregates.
func (ag *Aggregator) Compute(window Window, partnerID string, transactions []*models.Transaction, firstCompleted map[string]time.Time) *RawAggregate {
	agg := &RawAggregate{
		Window:              window,
		PartnerID:           partnerID,
		TotalRevenue:        decimal.Zero,
		TotalSavings:        decimal.Zero,
		CategoryBreakdown:   make(models.CategoryBreakdown),
		GeographicBreakdown: make(models.GeoBreakdown),
	}

	users := make(map[string]struct{})
	partners := make(map[string]*partnerBucket)
	cityUsers := make(map[string]map[string]struct{})

	for _, t := range transactions {
		if reason := recordFault(t); reason != "" {
			log.Printf("⚠️ Skipping transaction %q: %s", t.ID, reason)
			agg.SkippedRecords++
			continue
		}

		agg.TotalTransactions++
		agg.TotalRevenue = agg.TotalRevenue.Add(t.Amount)
		agg.TotalSavings = agg.TotalSavings.Add(t.SavingsAmount)

		users[t.UserID] = struct{}{}
		agg.HourCounts[t.CreatedAt.UTC().Hour()]++

		bucket := partners[t.PartnerID]
		if bucket == nil {
			bucket = &partnerBucket{revenue: decimal.Zero}
			partners[t.PartnerID] = bucket
		}
		bucket.count++
		bucket.revenue = bucket.revenue.Add(t.Amount)
		if bucket.name == "" && t.Partner != nil {
			bucket.name = t.Partner.Name
		}

		category := t.EffectiveCategory()
		stat := agg.CategoryBreakdown[category]
		stat.Count++
		stat.Revenue = stat.Revenue.Add(t.Amount)
		agg.CategoryBreakdown[category] = stat

		city := t.City()
		geo := agg.GeographicBreakdown[city]
		geo.Transactions++
		if cityUsers[city] == nil {
			cityUsers[city] = make(map[string]struct{})
		}
		cityUsers[city][t.UserID] = struct{}{}
		agg.GeographicBreakdown[city] = geo
	}

	for city, set := range cityUsers {
		geo := agg.GeographicBreakdown[city]
		geo.Users = len(set)
		agg.GeographicBreakdown[city] = geo
	}

	agg.UniqueUsers = len(users)
	agg.UniquePartners = len(partners)

	for userID := range users {
		first, ok := firstCompleted[userID]
		if ok && first.Before(window.Start) {
			agg.ReturningCustomers++
		} else {
			agg.NewCustomers++
		}
	}

	agg.AverageTransactionValue = safeAverage(agg.TotalRevenue, agg.TotalTransactions)
	agg.PeakHour = peakHour(agg.HourCounts)
	agg.PeakHours = peakHours(agg.HourCounts)
	agg.TopCategories = ag.topCategories(agg.CategoryBreakdown)
	agg.TopPartners = ag.topPartners(partners)

	return agg
}

// partnerBucket accumulates one partner's share of the window.
type partnerBucket struct {
	name    string
	count   int
	revenue decimal.Decimal
}

// recordFault returns a non-empty reason when the transaction cannot be
// aggregated. The window query filters on status, so anything else here is
// unexpected and worth a log line.
func recordFault(t *models.Transaction) string {
	switch {
	case t.ID == "":
		return "missing id"
	case t.UserID == "":
		return "missing user id"
	case t.PartnerID == "":
		return "missing partner id"
	case t.CreatedAt.IsZero():
		return "missing created_at"
	case t.Status != models.TransactionStatusCompleted:
		return "status is not completed"
	case t.Amount.IsNegative():
		return "negative amount"
	default:
		return ""
	}
}

// safeAverage treats an empty window as average 0 instead of dividing by
// zero. Rounded to the 4 decimal places the metric columns carry.
func safeAverage(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 4)
}

// peakHour is the argmax over the 24 hourly buckets, earliest hour on ties.
func peakHour(counts [24]int) int {
	peak := 0
	for hour := 1; hour < 24; hour++ {
		if counts[hour] > counts[peak] {
			peak = hour
		}
	}
	return peak
}

// peakHours collects every non-empty hour whose count is a local maximum
// against its neighbouring hours.
func peakHours(counts [24]int) []int {
	var hours []int
	for hour := 0; hour < 24; hour++ {
		if counts[hour] == 0 {
			continue
		}
		if hour > 0 && counts[hour-1] > counts[hour] {
			continue
		}
		if hour < 23 && counts[hour+1] > counts[hour] {
			continue
		}
		hours = append(hours, hour)
	}
	return hours
}

func (ag *Aggregator) topCategories(breakdown models.CategoryBreakdown) models.TopCategoryList {
	ranked := make(models.TopCategoryList, 0, len(breakdown))
	for category, stat := range breakdown {
		ranked = append(ranked, models.TopCategory{
			Category: category,
			Count:    stat.Count,
			Revenue:  stat.Revenue,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})

	if len(ranked) > ag.topLimit {
		ranked = ranked[:ag.topLimit]
	}
	return ranked
}

func (ag *Aggregator) topPartners(buckets map[string]*partnerBucket) models.TopPartnerList {
	ranked := make(models.TopPartnerList, 0, len(buckets))
	for partnerID, bucket := range buckets {
		ranked = append(ranked, models.TopPartner{
			PartnerID: partnerID,
			Name:      bucket.name,
			Count:     bucket.count,
			Revenue:   bucket.revenue,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].PartnerID < ranked[j].PartnerID
	})

	if len(ranked) > ag.topLimit {
		ranked = ranked[:ag.topLimit]
	}
	return ranked
}
