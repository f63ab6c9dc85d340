package analytics

import (
	"github.com/shopspring/decimal"
)

// GrowthRate compares the current window's transaction count with the
// equivalent prior window and returns the percentage change.
//
// Edge cases, by contract: no prior activity and no current activity is 0%
// growth; activity appearing where there was none is reported as 100% with
// the undefined flag set. The flag is a documented sentinel for consumers,
// not a fault.
func GrowthRate(current, previous int) (rate decimal.Decimal, undefined bool) {
	if previous == 0 {
		if current == 0 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(100), true
	}

	diff := decimal.NewFromInt(int64(current - previous))
	return diff.Mul(decimal.NewFromInt(100)).DivRound(decimal.NewFromInt(int64(previous)), 2), false
}

// RetentionRate is the returning share of distinct customers, as a
// percentage. An empty window retains nobody and divides nothing.
func RetentionRate(returning, unique int) decimal.Decimal {
	if unique == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(returning)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(unique)), 2)
}

// Ratio is a guarded percentage division used by the daily-only platform
// measures (engagement, partner growth).
func Ratio(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 2)
}
