package analytics

import (
	"testing"
	"time"
)

func TestWindowEndingAt(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		granularity string
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{
			granularity: GranularityRealtime,
			wantStart:   time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 14, 15, 5, 0, 0, time.UTC),
		},
		{
			granularity: GranularityHourly,
			wantStart:   time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
		},
		{
			granularity: GranularityDaily,
			wantStart:   time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
			wantEnd:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.granularity, func(t *testing.T) {
			w := WindowEndingAt(now, tt.granularity)

			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Expected start %v, got %v", tt.wantStart, w.Start)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("Expected end %v, got %v", tt.wantEnd, w.End)
			}
		})
	}
}

func TestWindowContainsHalfOpen(t *testing.T) {
	w := Window{
		Start:       time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC),
		Granularity: GranularityHourly,
	}

	if !w.Contains(w.Start) {
		t.Error("Window must include its start boundary")
	}

	if w.Contains(w.End) {
		t.Error("Window must exclude its end boundary")
	}

	if !w.Contains(w.End.Add(-time.Nanosecond)) {
		t.Error("Window must include instants just before the end boundary")
	}
}

// A transaction completing exactly on a boundary between adjacent windows
// must land in exactly one of them, so windows of one granularity always
// tile without double-counting.
func TestRealtimeWindowsPartitionHour(t *testing.T) {
	hourStart := time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC)

	var windows []Window
	for i := 0; i < 12; i++ {
		start := hourStart.Add(time.Duration(i) * realtimeInterval)
		windows = append(windows, Window{
			Start:       start,
			End:         start.Add(realtimeInterval),
			Granularity: GranularityRealtime,
		})
	}

	// Probe every boundary instant plus interior points.
	var probes []time.Time
	for i := 0; i < 12; i++ {
		probes = append(probes,
			hourStart.Add(time.Duration(i)*realtimeInterval),
			hourStart.Add(time.Duration(i)*realtimeInterval+2*time.Minute),
		)
	}

	for _, probe := range probes {
		owners := 0
		for _, w := range windows {
			if w.Contains(probe) {
				owners++
			}
		}
		if owners != 1 {
			t.Errorf("Instant %v is owned by %d windows, expected exactly 1", probe, owners)
		}
	}
}

func TestWindowPrevious(t *testing.T) {
	w := WindowEndingAt(time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC), GranularityHourly)
	prev := w.Previous()

	if !prev.End.Equal(w.Start) {
		t.Errorf("Previous window must end where the current starts, got end %v", prev.End)
	}

	if prev.Duration() != w.Duration() {
		t.Errorf("Previous window duration %v differs from current %v", prev.Duration(), w.Duration())
	}
}

func TestCacheTTLPerGranularity(t *testing.T) {
	tests := []struct {
		granularity string
		want        time.Duration
	}{
		{GranularityRealtime, 25 * time.Minute},
		{GranularityHourly, 24 * time.Hour},
		{GranularityDaily, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		w := WindowEndingAt(time.Now(), tt.granularity)
		if got := w.CacheTTL(); got != tt.want {
			t.Errorf("%s: expected TTL %v, got %v", tt.granularity, tt.want, got)
		}
	}
}

func TestPersistedGranularities(t *testing.T) {
	now := time.Now()

	if WindowEndingAt(now, GranularityRealtime).Persisted() {
		t.Error("Realtime windows must be cache-only")
	}
	if !WindowEndingAt(now, GranularityHourly).Persisted() {
		t.Error("Hourly windows must be persisted")
	}
	if !WindowEndingAt(now, GranularityDaily).Persisted() {
		t.Error("Daily windows must be persisted")
	}
}
