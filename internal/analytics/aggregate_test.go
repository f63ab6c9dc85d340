package analytics

import (
	"testing"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testWindow() Window {
	start := time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.Add(time.Hour), Granularity: GranularityHourly}
}

func makeTransaction(w Window, offset time.Duration, userID, partnerID, category, amount string) *models.Transaction {
	return &models.Transaction{
		ID:            uuid.NewString(),
		PartnerID:     partnerID,
		UserID:        userID,
		Amount:        decimal.RequireFromString(amount),
		SavingsAmount: decimal.Zero,
		Status:        models.TransactionStatusCompleted,
		Category:      category,
		CreatedAt:     w.Start.Add(offset),
	}
}

// The per-category revenue buckets must add up to exactly the total revenue
// for any transaction set inside one window.
func TestCategoryRevenueCompleteness(t *testing.T) {
	w := testWindow()
	userA := uuid.NewString()
	partnerP := uuid.NewString()

	txs := []*models.Transaction{
		makeTransaction(w, 1*time.Minute, userA, partnerP, "restaurants", "10.01"),
		makeTransaction(w, 2*time.Minute, userA, partnerP, "restaurants", "19.99"),
		makeTransaction(w, 3*time.Minute, userA, partnerP, "hotels", "120.50"),
		makeTransaction(w, 4*time.Minute, userA, partnerP, "spa", "0.10"),
	}

	agg := NewAggregator(5).Compute(w, "", txs, nil)

	sum := decimal.Zero
	for _, stat := range agg.CategoryBreakdown {
		sum = sum.Add(stat.Revenue)
	}

	if !sum.Equal(agg.TotalRevenue) {
		t.Errorf("Category revenue sum %s does not equal total revenue %s", sum, agg.TotalRevenue)
	}

	if !agg.TotalRevenue.Equal(decimal.RequireFromString("150.60")) {
		t.Errorf("Expected total revenue 150.60, got %s", agg.TotalRevenue)
	}
}

func TestEmptyWindowHasZeroAverage(t *testing.T) {
	agg := NewAggregator(5).Compute(testWindow(), "", nil, nil)

	if agg.TotalTransactions != 0 {
		t.Errorf("Expected 0 transactions, got %d", agg.TotalTransactions)
	}

	if !agg.AverageTransactionValue.IsZero() {
		t.Errorf("Expected average 0 for empty window, got %s", agg.AverageTransactionValue)
	}
}

func TestPeakHourTiesBreakEarliest(t *testing.T) {
	var counts [24]int
	counts[9] = 3
	counts[17] = 3
	counts[12] = 1

	if got := peakHour(counts); got != 9 {
		t.Errorf("Expected peak hour 9 (earliest of the tied maxima), got %d", got)
	}
}

func TestPeakHoursLocalMaxima(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
		want   []int
	}{
		{
			name:   "two separated peaks",
			counts: map[int]int{8: 2, 9: 5, 10: 1, 18: 4, 19: 2},
			want:   []int{9, 18},
		},
		{
			name:   "single busy hour",
			counts: map[int]int{13: 7},
			want:   []int{13},
		},
		{
			name:   "empty day",
			counts: map[int]int{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counts [24]int
			for hour, n := range tt.counts {
				counts[hour] = n
			}

			got := peakHours(counts)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected peak hours %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expected peak hours %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestTopCategoriesLimitAndOrder(t *testing.T) {
	w := testWindow()
	userA := uuid.NewString()
	partnerP := uuid.NewString()

	var txs []*models.Transaction
	for i, category := range []string{"restaurants", "restaurants", "restaurants", "hotels", "hotels", "spa"} {
		txs = append(txs, makeTransaction(w, time.Duration(i)*time.Minute, userA, partnerP, category, "5.00"))
	}

	agg := NewAggregator(2).Compute(w, "", txs, nil)

	if len(agg.TopCategories) != 2 {
		t.Fatalf("Expected top list capped at 2, got %d entries", len(agg.TopCategories))
	}

	if agg.TopCategories[0].Category != "restaurants" || agg.TopCategories[0].Count != 3 {
		t.Errorf("Expected restaurants(3) first, got %s(%d)", agg.TopCategories[0].Category, agg.TopCategories[0].Count)
	}

	if agg.TopCategories[1].Category != "hotels" {
		t.Errorf("Expected hotels second, got %s", agg.TopCategories[1].Category)
	}
}

func TestTopPartnersLimitAndOrder(t *testing.T) {
	w := testWindow()
	userA := uuid.NewString()

	busy := &models.Partner{ID: uuid.NewString(), Name: "Cafe Sofia", Category: "restaurants"}
	middle := &models.Partner{ID: uuid.NewString(), Name: "Grand Hotel", Category: "hotels"}
	quiet := &models.Partner{ID: uuid.NewString(), Name: "Spa Varna", Category: "spa"}

	var txs []*models.Transaction
	for i, partner := range []*models.Partner{busy, busy, busy, middle, middle, quiet} {
		tx := makeTransaction(w, time.Duration(i)*time.Minute, userA, partner.ID, "", "5.00")
		tx.Partner = partner
		txs = append(txs, tx)
	}

	agg := NewAggregator(2).Compute(w, "", txs, nil)

	if len(agg.TopPartners) != 2 {
		t.Fatalf("Expected top list capped at 2, got %d entries", len(agg.TopPartners))
	}

	first := agg.TopPartners[0]
	if first.PartnerID != busy.ID || first.Count != 3 {
		t.Errorf("Expected the busiest partner first with 3 transactions, got %s(%d)", first.PartnerID, first.Count)
	}
	if first.Name != "Cafe Sofia" {
		t.Errorf("Expected the partner name carried on the ranking, got %q", first.Name)
	}
	if !first.Revenue.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("Expected revenue 15.00 for the top partner, got %s", first.Revenue)
	}

	if agg.TopPartners[1].PartnerID != middle.ID {
		t.Errorf("Expected the second-busiest partner next, got %s", agg.TopPartners[1].PartnerID)
	}
}

func TestMalformedRecordsAreSkipped(t *testing.T) {
	w := testWindow()
	partnerP := uuid.NewString()

	good := makeTransaction(w, time.Minute, uuid.NewString(), partnerP, "restaurants", "10.00")

	missingUser := makeTransaction(w, 2*time.Minute, "", partnerP, "restaurants", "10.00")
	negative := makeTransaction(w, 3*time.Minute, uuid.NewString(), partnerP, "restaurants", "-1.00")
	pending := makeTransaction(w, 4*time.Minute, uuid.NewString(), partnerP, "restaurants", "10.00")
	pending.Status = models.TransactionStatusPending

	agg := NewAggregator(5).Compute(w, "", []*models.Transaction{good, missingUser, negative, pending}, nil)

	if agg.TotalTransactions != 1 {
		t.Errorf("Expected only the valid record aggregated, got %d", agg.TotalTransactions)
	}

	if agg.SkippedRecords != 3 {
		t.Errorf("Expected 3 skipped records, got %d", agg.SkippedRecords)
	}

	if !agg.TotalRevenue.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("Expected revenue 10.00, got %s", agg.TotalRevenue)
	}
}

func TestNewReturningClassification(t *testing.T) {
	w := testWindow()
	partnerP := uuid.NewString()
	returningUser := uuid.NewString()
	newUser := uuid.NewString()

	txs := []*models.Transaction{
		makeTransaction(w, 5*time.Minute, returningUser, partnerP, "restaurants", "10.00"),
		makeTransaction(w, 10*time.Minute, newUser, partnerP, "restaurants", "20.00"),
	}

	// returningUser has partner history before the window; newUser's first
	// ever completed transaction with the partner is inside the window.
	firstSeen := map[string]time.Time{
		returningUser: w.Start.Add(-48 * time.Hour),
		newUser:       w.Start.Add(10 * time.Minute),
	}

	agg := NewAggregator(5).Compute(w, partnerP, txs, firstSeen)

	if agg.ReturningCustomers != 1 {
		t.Errorf("Expected 1 returning customer, got %d", agg.ReturningCustomers)
	}

	if agg.NewCustomers != 1 {
		t.Errorf("Expected 1 new customer, got %d", agg.NewCustomers)
	}

	if agg.NewCustomers+agg.ReturningCustomers != agg.UniqueCustomers() {
		t.Errorf("new(%d) + returning(%d) must equal unique(%d)",
			agg.NewCustomers, agg.ReturningCustomers, agg.UniqueCustomers())
	}
}

// At platform scope the history map is platform-wide, so a user who only
// ever transacted with some other partner still counts as returning. This
// pins the per-scope classification choice.
func TestPlatformClassificationUsesCrossPartnerHistory(t *testing.T) {
	w := testWindow()
	user := uuid.NewString()

	txs := []*models.Transaction{
		makeTransaction(w, time.Minute, user, uuid.NewString(), "restaurants", "10.00"),
	}

	// First completed transaction anywhere on the platform predates the
	// window, even though it was with a different partner.
	firstSeen := map[string]time.Time{
		user: w.Start.Add(-time.Hour),
	}

	agg := NewAggregator(5).Compute(w, "", txs, firstSeen)

	if agg.ReturningCustomers != 1 || agg.NewCustomers != 0 {
		t.Errorf("Expected platform-wide history to classify the user as returning, got new=%d returning=%d",
			agg.NewCustomers, agg.ReturningCustomers)
	}
}

func TestGeographicBreakdownCountsDistinctUsers(t *testing.T) {
	w := testWindow()
	partner := &models.Partner{ID: uuid.NewString(), Name: "Cafe Sofia", Category: "restaurants", LocationCity: "Sofia"}
	userA := uuid.NewString()
	userB := uuid.NewString()

	txA1 := makeTransaction(w, time.Minute, userA, partner.ID, "", "10.00")
	txA2 := makeTransaction(w, 2*time.Minute, userA, partner.ID, "", "15.00")
	txB := makeTransaction(w, 3*time.Minute, userB, partner.ID, "", "20.00")
	for _, tx := range []*models.Transaction{txA1, txA2, txB} {
		tx.Partner = partner
	}

	agg := NewAggregator(5).Compute(w, "", []*models.Transaction{txA1, txA2, txB}, nil)

	geo, ok := agg.GeographicBreakdown["Sofia"]
	if !ok {
		t.Fatal("Expected a Sofia bucket in the geographic breakdown")
	}

	if geo.Transactions != 3 {
		t.Errorf("Expected 3 transactions in Sofia, got %d", geo.Transactions)
	}

	if geo.Users != 2 {
		t.Errorf("Expected 2 distinct users in Sofia, got %d", geo.Users)
	}

	// With no category on the transactions, the partner's category fills in.
	if stat := agg.CategoryBreakdown["restaurants"]; stat.Count != 3 {
		t.Errorf("Expected partner category fallback to bucket all 3 transactions, got %d", stat.Count)
	}
}
