package extract

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp time.Time
	durUs     int64
	filled    int
}

// StatsSnapshot is a point-in-time aggregate of recent extractions.
type StatsSnapshot struct {
	Count     int     `json:"count"`
	Empty     int     `json:"empty"`
	MinUs     int64   `json:"min_us"`
	MaxUs     int64   `json:"max_us"`
	AvgUs     float64 `json:"avg_us"`
	P50Us     float64 `json:"p50_us"`
	P95Us     float64 `json:"p95_us"`
	P99Us     float64 `json:"p99_us"`
	AvgFields float64 `json:"avg_fields"`
}

// Stats tracks extraction latency and yield within a rolling window.
// Empty counts extractions that produced no usable fields at all, the
// signal a caller uses to tell the user recognition found nothing.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one extraction outcome.
func (s *Stats) Record(dur time.Duration, result Fields) {
	if dur < 0 {
		dur = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp: now,
		durUs:     dur.Microseconds(),
		filled:    result.FilledCount(),
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]int64, 0, len(s.samples))
	var sum, fieldSum int64
	empty := 0
	for _, sm := range s.samples {
		values = append(values, sm.durUs)
		sum += sm.durUs
		fieldSum += int64(sm.filled)
		if sm.filled == 0 {
			empty++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	n := float64(len(values))
	return StatsSnapshot{
		Count:     len(values),
		Empty:     empty,
		MinUs:     values[0],
		MaxUs:     values[len(values)-1],
		AvgUs:     float64(sum) / n,
		P50Us:     percentile(values, 50),
		P95Us:     percentile(values, 95),
		P99Us:     percentile(values, 99),
		AvgFields: float64(fieldSum) / n,
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
