package stats

import (
	"math"
	"slices"
	"time"
)

// Latency summarizes a set of call durations.
type Latency struct {
	Count int           `json:"count"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

// Summarize sorts a copy of samples and computes nearest-rank percentiles.
// With few samples P95 and P99 collapse onto Max.
func Summarize(samples []time.Duration) Latency {
	if len(samples) == 0 {
		return Latency{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return Latency{
		Count: len(sorted),
		Mean:  total / time.Duration(len(sorted)),
		P50:   Percentile(sorted, 0.50),
		P95:   Percentile(sorted, 0.95),
		P99:   Percentile(sorted, 0.99),
		Max:   sorted[len(sorted)-1],
	}
}

// Percentile returns the nearest-rank value for p in [0,1] from an
// ascending slice: index ceil(n*p)-1, clamped.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	index := int(math.Ceil(float64(n)*p)) - 1
	return sorted[max(0, min(index, n-1))]
}
