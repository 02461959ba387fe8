package pipeline

import (
	"slices"
	"sync"
	"time"
)

// StatsSnapshot summarizes the per-item latencies observed in the trailing
// window. All values are milliseconds; the zero value means nothing ran.
type StatsSnapshot struct {
	Window string  `json:"window"`
	Count  int     `json:"count"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// LatencyStats keeps the duration of each extracted file or translated record
// for a trailing window. Observations arrive in time order, so expiry only
// ever trims the front.
type LatencyStats struct {
	mu     sync.Mutex
	window time.Duration
	at     []time.Time
	ms     []int64
	now    func() time.Time
}

// NewLatencyStats keeps observations younger than window; zero means an hour.
func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{window: window, now: time.Now}
}

// Observe records one item's duration. Negative durations count as zero.
func (s *LatencyStats) Observe(d time.Duration) {
	ms := max(d.Milliseconds(), 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.expire(now)
	s.at = append(s.at, now)
	s.ms = append(s.ms, ms)
}

func (s *LatencyStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	s.expire(s.now())
	sorted := slices.Clone(s.ms)
	s.mu.Unlock()

	if len(sorted) == 0 {
		return StatsSnapshot{}
	}
	slices.Sort(sorted)

	var total int64
	for _, v := range sorted {
		total += v
	}
	return StatsSnapshot{
		Window: s.window.String(),
		Count:  len(sorted),
		MinMs:  sorted[0],
		MaxMs:  sorted[len(sorted)-1],
		AvgMs:  float64(total) / float64(len(sorted)),
		P50Ms:  quantile(sorted, 0.50),
		P95Ms:  quantile(sorted, 0.95),
		P99Ms:  quantile(sorted, 0.99),
	}
}

func (s *LatencyStats) expire(now time.Time) {
	cutoff := now.Add(-s.window)
	n, _ := slices.BinarySearchFunc(s.at, cutoff, func(t, c time.Time) int { return t.Compare(c) })
	if n == 0 {
		return
	}
	s.at = slices.Delete(s.at, 0, n)
	s.ms = slices.Delete(s.ms, 0, n)
}

// quantile interpolates linearly between the two nearest ranks of sorted.
func quantile(sorted []int64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	i := int(pos)
	if i >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	lo, hi := float64(sorted[i]), float64(sorted[i+1])
	return lo + (hi-lo)*(pos-float64(i))
}
