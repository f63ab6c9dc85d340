package analytics

import (
	"log"
	"sort"
	"time"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/config"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/models"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/repository"

	"github.com/shopspring/decimal"
)

// Service runs one aggregation pipeline end to end: window query, platform
// and per-partner aggregation, growth analysis, cache publication, durable
// upsert, and (daily) retention cleanup. Each run computes a fresh
// RawAggregate from durable data; there is no shared accumulator between
// runs or between granularities.
type Service struct {
	txRepo          repository.TransactionRepository
	userRepo        repository.UserRepository
	partnerRepo     repository.PartnerRepository
	platformMetrics repository.PlatformMetricRepository
	partnerMetrics  repository.PartnerMetricRepository
	cache           *Cache
	aggregator      *Aggregator
	cfg             config.AnalyticsConfig

	// now is swappable for tests.
	now func() time.Time
}

func NewService(
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	partnerRepo repository.PartnerRepository,
	platformMetrics repository.PlatformMetricRepository,
	partnerMetrics repository.PartnerMetricRepository,
	cache *Cache,
	cfg config.AnalyticsConfig,
) *Service {
	return &Service{
		txRepo:          txRepo,
		userRepo:        userRepo,
		partnerRepo:     partnerRepo,
		platformMetrics: platformMetrics,
		partnerMetrics:  partnerMetrics,
		cache:           cache,
		aggregator:      NewAggregator(cfg.TopCategoriesLimit),
		cfg:             cfg,
		now:             time.Now,
	}
}

func (s *Service) RunRealtime() error {
	return s.RunWindow(WindowEndingAt(s.now(), GranularityRealtime))
}

func (s *Service) RunHourly() error {
	return s.RunWindow(WindowEndingAt(s.now(), GranularityHourly))
}

// RunDaily aggregates the just-completed calendar day, then removes metric
// rows past the retention horizon. Cleanup only happens after a successful
// aggregation.
func (s *Service) RunDaily() error {
	window := WindowEndingAt(s.now(), GranularityDaily)
	if err := s.RunWindow(window); err != nil {
		return err
	}
	return s.Cleanup(window.End)
}

// RunWindow executes the pipeline for one specific window. Everything is
// computed before anything is written, so a failed run leaves no partial
// durable or cached record.
func (s *Service) RunWindow(window Window) error {
	transactions, err := s.txRepo.ListCompletedInWindow(window.Start, window.End)
	if err != nil {
		return transient("window query", err)
	}

	platform, err := s.computePlatform(window, transactions)
	if err != nil {
		return err
	}

	partnerRows, err := s.computePartners(window, transactions)
	if err != nil {
		return err
	}

	// Full compute done; writers run from here on.
	if window.Persisted() {
		if err := s.platformMetrics.Upsert(platform); err != nil {
			return transient("platform upsert", err)
		}
		for _, row := range partnerRows {
			if err := s.partnerMetrics.Upsert(row); err != nil {
				return transient("partner upsert", err)
			}
		}
	}

	if err := s.cache.SetPlatform(window, platform); err != nil {
		return transient("platform cache write", err)
	}
	for _, row := range partnerRows {
		if err := s.cache.SetPartner(window, row); err != nil {
			return transient("partner cache write", err)
		}
	}

	log.Printf("Aggregated %s: %d transactions, %d users, %d partners",
		window, platform.TotalTransactions, platform.UniqueUsers, len(partnerRows))

	return nil
}

func (s *Service) computePlatform(window Window, transactions []*models.Transaction) (*models.PlatformMetric, error) {
	firstSeen, err := s.txRepo.FirstCompletedAt(distinctUserIDs(transactions))
	if err != nil {
		return nil, transient("platform history lookup", err)
	}

	agg := s.aggregator.Compute(window, "", transactions, firstSeen)

	previousCount, baselineKnown, err := s.previousPlatformCount(window)
	if err != nil {
		return nil, err
	}
	growth, undefined := GrowthRate(agg.TotalTransactions, previousCount)
	if !baselineKnown {
		growth, undefined = decimal.Zero, true
	}

	metric := &models.PlatformMetric{
		Granularity:             window.Granularity,
		WindowStart:             window.Start,
		WindowEnd:               window.End,
		TotalTransactions:       agg.TotalTransactions,
		TotalRevenue:            agg.TotalRevenue,
		TotalSavings:            agg.TotalSavings,
		AverageTransactionValue: agg.AverageTransactionValue,
		UniqueUsers:             agg.UniqueUsers,
		UniquePartners:          agg.UniquePartners,
		PeakHour:                agg.PeakHour,
		CategoryBreakdown:       agg.CategoryBreakdown,
		GeographicBreakdown:     agg.GeographicBreakdown,
		TopCategories:           agg.TopCategories,
		TopPartners:             agg.TopPartners,
		GrowthRate:              growth,
		GrowthUndefined:         undefined,
		ReturningUsers:          agg.ReturningCustomers,
		CustomerRetentionRate:   RetentionRate(agg.ReturningCustomers, agg.UniqueUsers),
	}

	if window.Granularity == GranularityDaily {
		if err := s.fillDailyPlatformMeasures(window, agg, metric); err != nil {
			return nil, err
		}
	}

	return metric, nil
}

// fillDailyPlatformMeasures adds the measures only the daily pipeline
// reports: registration-based new users, engagement against the whole user
// base, and partner base growth.
func (s *Service) fillDailyPlatformMeasures(window Window, agg *RawAggregate, metric *models.PlatformMetric) error {
	newUsers, err := s.userRepo.CountCreatedBetween(window.Start, window.End)
	if err != nil {
		return transient("new user count", err)
	}

	totalUsers, err := s.userRepo.CountCreatedBefore(window.End)
	if err != nil {
		return transient("total user count", err)
	}

	newPartners, err := s.partnerRepo.CountCreatedBetween(window.Start, window.End)
	if err != nil {
		return transient("new partner count", err)
	}

	partnersBefore, err := s.partnerRepo.CountCreatedBefore(window.Start)
	if err != nil {
		return transient("partner base count", err)
	}

	metric.ActiveUsers = agg.UniqueUsers
	metric.NewUsers = int(newUsers)
	metric.UserEngagementRate = Ratio(int64(agg.UniqueUsers), totalUsers)
	metric.PartnerGrowthRate = Ratio(newPartners, partnersBefore)

	return nil
}

func (s *Service) computePartners(window Window, transactions []*models.Transaction) ([]*models.PartnerMetric, error) {
	byPartner := make(map[string][]*models.Transaction)
	for _, t := range transactions {
		byPartner[t.PartnerID] = append(byPartner[t.PartnerID], t)
	}

	partnerIDs := make([]string, 0, len(byPartner))
	for id := range byPartner {
		partnerIDs = append(partnerIDs, id)
	}
	sort.Strings(partnerIDs)

	rows := make([]*models.PartnerMetric, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		partnerTxs := byPartner[partnerID]

		firstSeen, err := s.txRepo.FirstCompletedAtByPartner(partnerID, distinctUserIDs(partnerTxs))
		if err != nil {
			return nil, transient("partner history lookup", err)
		}

		agg := s.aggregator.Compute(window, partnerID, partnerTxs, firstSeen)

		previousCount, baselineKnown, err := s.previousPartnerCount(window, partnerID)
		if err != nil {
			return nil, err
		}
		growth, undefined := GrowthRate(agg.TotalTransactions, previousCount)
		if !baselineKnown {
			growth, undefined = decimal.Zero, true
		}

		rows = append(rows, &models.PartnerMetric{
			PartnerID:               partnerID,
			Granularity:             window.Granularity,
			WindowStart:             window.Start,
			WindowEnd:               window.End,
			TotalTransactions:       agg.TotalTransactions,
			TotalRevenue:            agg.TotalRevenue,
			TotalSavings:            agg.TotalSavings,
			AverageTransactionValue: agg.AverageTransactionValue,
			UniqueCustomers:         agg.UniqueCustomers(),
			NewCustomers:            agg.NewCustomers,
			ReturningCustomers:      agg.ReturningCustomers,
			CustomerRetentionRate:   RetentionRate(agg.ReturningCustomers, agg.UniqueCustomers()),
			AvgCustomerValue:        safeAverage(agg.TotalRevenue, agg.UniqueCustomers()),
			PeakHour:                agg.PeakHour,
			PeakHours:               agg.PeakHours,
			CategoryBreakdown:       agg.CategoryBreakdown,
			GeographicBreakdown:     agg.GeographicBreakdown,
			TopCategories:           agg.TopCategories,
			GrowthRate:              growth,
			GrowthUndefined:         undefined,
		})
	}

	return rows, nil
}

// previousPlatformCount loads the prior window's transaction count. Hourly
// and daily read the durable store; realtime windows are never persisted,
// so the prior realtime snapshot comes from the cache (a miss means genuine
// first-run growth semantics). Without a cache there is no realtime
// baseline at all, reported as not known so growth stays unset instead of
// repeating the first-run sentinel every window.
func (s *Service) previousPlatformCount(window Window) (int, bool, error) {
	if window.Granularity == GranularityRealtime {
		if !s.cache.Enabled() {
			return 0, false, nil
		}
		snapshot, err := s.cache.GetPlatform(window.Previous())
		if err != nil {
			return 0, false, transient("previous snapshot read", err)
		}
		if snapshot == nil {
			return 0, true, nil
		}
		return snapshot.TotalTransactions, true, nil
	}

	previous, err := s.platformMetrics.GetPrevious(window.Granularity, window.Start)
	if err != nil {
		return 0, false, transient("previous platform metric read", err)
	}
	if previous == nil {
		return 0, true, nil
	}
	return previous.TotalTransactions, true, nil
}

func (s *Service) previousPartnerCount(window Window, partnerID string) (int, bool, error) {
	if window.Granularity == GranularityRealtime {
		if !s.cache.Enabled() {
			return 0, false, nil
		}
		snapshot, err := s.cache.GetPartner(window.Previous(), partnerID)
		if err != nil {
			return 0, false, transient("previous snapshot read", err)
		}
		if snapshot == nil {
			return 0, true, nil
		}
		return snapshot.TotalTransactions, true, nil
	}

	previous, err := s.partnerMetrics.GetPrevious(partnerID, window.Granularity, window.Start)
	if err != nil {
		return 0, false, transient("previous partner metric read", err)
	}
	if previous == nil {
		return 0, true, nil
	}
	return previous.TotalTransactions, true, nil
}

// Cleanup deletes metric rows past the retention horizon. Hourly rows are
// kept for a configured number of days; daily rows are kept indefinitely
// unless a daily retention is configured.
func (s *Service) Cleanup(now time.Time) error {
	hourlyCutoff := now.AddDate(0, 0, -s.cfg.HourlyRetentionDays)

	platformDeleted, err := s.platformMetrics.DeleteOlderThan(GranularityHourly, hourlyCutoff)
	if err != nil {
		return transient("hourly platform cleanup", err)
	}

	partnerDeleted, err := s.partnerMetrics.DeleteOlderThan(GranularityHourly, hourlyCutoff)
	if err != nil {
		return transient("hourly partner cleanup", err)
	}

	if s.cfg.DailyRetentionDays > 0 {
		dailyCutoff := now.AddDate(0, 0, -s.cfg.DailyRetentionDays)

		n, err := s.platformMetrics.DeleteOlderThan(GranularityDaily, dailyCutoff)
		if err != nil {
			return transient("daily platform cleanup", err)
		}
		platformDeleted += n

		n, err = s.partnerMetrics.DeleteOlderThan(GranularityDaily, dailyCutoff)
		if err != nil {
			return transient("daily partner cleanup", err)
		}
		partnerDeleted += n
	}

	if platformDeleted > 0 || partnerDeleted > 0 {
		log.Printf("Cleanup removed %d platform and %d partner metric rows", platformDeleted, partnerDeleted)
	}

	return nil
}

func distinctUserIDs(transactions []*models.Transaction) []string {
	seen := make(map[string]struct{}, len(transactions))
	ids := make([]string, 0, len(transactions))
	for _, t := range transactions {
		if t.UserID == "" {
			continue
		}
		if _, ok := seen[t.UserID]; ok {
			continue
		}
		seen[t.UserID] = struct{}{}
		ids = append(ids, t.UserID)
	}
	sort.Strings(ids)
	return ids
}
