package analytics

import (
	"fmt"
	"time"
)

const (
	GranularityRealtime = "realtime"
	GranularityHourly   = "hourly"
	GranularityDaily    = "daily"
)

const realtimeInterval = 5 * time.Minute

// windowKeyFormat renders a UTC window start for cache keys.
const windowKeyFormat = "2006-01-02T15:04:05Z"

// Window is a half-open UTC interval [Start, End) tagged with a granularity.
// Windows of one granularity never overlap and tile calendar time; the
// half-open bound guarantees a transaction landing exactly on a boundary is
// counted in exactly one window.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity string
}

// WindowEndingAt returns the window of the given granularity that closed at
// or immediately before now. Each scheduler tick aggregates this window.
func WindowEndingAt(now time.Time, granularity string) Window {
	end := now.UTC().Truncate(granularitySize(granularity))
	return Window{
		Start:       end.Add(-granularitySize(granularity)),
		End:         end,
		Granularity: granularity,
	}
}

func granularitySize(granularity string) time.Duration {
	switch granularity {
	case GranularityRealtime:
		return realtimeInterval
	case GranularityHourly:
		return time.Hour
	case GranularityDaily:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Previous returns the adjacent earlier window of the same granularity.
func (w Window) Previous() Window {
	return Window{
		Start:       w.Start.Add(-w.Duration()),
		End:         w.Start,
		Granularity: w.Granularity,
	}
}

// CacheTTL is how long the window's snapshot stays readable in Redis.
// Realtime keeps five trailing windows; hourly a day; daily a week for
// dashboard reads. The cache is never authoritative.
func (w Window) CacheTTL() time.Duration {
	switch w.Granularity {
	case GranularityRealtime:
		return 5 * realtimeInterval
	case GranularityHourly:
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// KeyPart is the window-start fragment of cache keys.
func (w Window) KeyPart() string {
	return w.Start.UTC().Format(windowKeyFormat)
}

func (w Window) String() string {
	return fmt.Sprintf("%s[%s, %s)", w.Granularity, w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
}

// Persisted reports whether metric rows for this granularity reach the
// durable store. Realtime windows live in the cache only.
func (w Window) Persisted() bool {
	return w.Granularity == GranularityHourly || w.Granularity == GranularityDaily
}
