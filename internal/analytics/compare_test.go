package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name          string
		current       int
		previous      int
		wantRate      string
		wantUndefined bool
	}{
		{"both empty", 0, 0, "0", false},
		{"activity from nothing", 5, 0, "100", true},
		{"growth", 150, 100, "50", false},
		{"decline", 50, 100, "-50", false},
		{"flat", 100, 100, "0", false},
		{"fractional", 110, 80, "37.5", false},
		{"dropped to zero", 0, 40, "-100", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, undefined := GrowthRate(tt.current, tt.previous)

			if !rate.Equal(decimal.RequireFromString(tt.wantRate)) {
				t.Errorf("Expected growth rate %s, got %s", tt.wantRate, rate)
			}

			if undefined != tt.wantUndefined {
				t.Errorf("Expected undefined=%t, got %t", tt.wantUndefined, undefined)
			}
		})
	}
}

func TestRetentionRate(t *testing.T) {
	tests := []struct {
		name      string
		returning int
		unique    int
		want      string
	}{
		{"no customers", 0, 0, "0"},
		{"all new", 0, 10, "0"},
		{"half returning", 1, 2, "50"},
		{"rounding", 1, 3, "33.33"},
		{"all returning", 4, 4, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RetentionRate(tt.returning, tt.unique)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected retention %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(25, 0); !got.IsZero() {
		t.Errorf("Expected 0 when the denominator is 0, got %s", got)
	}

	if got := Ratio(25, 200); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected 12.5, got %s", got)
	}
}
