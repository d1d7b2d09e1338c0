package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guanqun/uethers/internal/metrics"
)

// AutoSelect is the provider name that asks for the best-scoring provider.
const AutoSelect = "auto"

// Ranked is a provider's health together with its selection score.
type Ranked struct {
	metrics.ProviderHealth
	BlockDelta uint64  // blocks behind the highest head seen
	Score      float64 // 0..1, higher is better
	Excluded   bool    // DOWN or DEGRADED providers are only picked as a last resort
}

// Rank scores providers on success rate, p95 latency and freshness and
// returns them best first.
func Rank(health []metrics.ProviderHealth) []Ranked {
	var highest uint64
	for _, h := range health {
		highest = max(highest, h.LatestBlock)
	}

	ranked := make([]Ranked, len(health))
	for i, h := range health {
		r := Ranked{ProviderHealth: h}
		if h.LatestBlock > 0 {
			r.BlockDelta = highest - h.LatestBlock
		}
		r.Excluded = h.Status == metrics.StatusDown || h.Status == metrics.StatusDegraded
		r.Score = score(r)
		ranked[i] = r
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Excluded != ranked[j].Excluded {
			return !ranked[i].Excluded
		}
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func score(r Ranked) float64 {
	success := r.SuccessRate / 100
	latency := max(0, 1-float64(r.Latency.P95.Milliseconds())/1000)
	freshness := max(0, 1-float64(r.BlockDelta)/10)
	return success*0.5 + latency*0.3 + freshness*0.2
}

// ErrNoProviders is returned by Best when nothing was ranked.
var ErrNoProviders = errors.New("no providers available")

// Best returns the top non-excluded provider. When every provider is
// excluded it still returns the least-bad one, along with an error.
func Best(ranked []Ranked) (Ranked, error) {
	if len(ranked) == 0 {
		return Ranked{}, ErrNoProviders
	}
	if ranked[0].Excluded {
		return ranked[0], fmt.Errorf("all providers degraded, using least-bad: %s", ranked[0].Name)
	}
	return ranked[0], nil
}

// SelectBest probes every provider a few times and returns the best one.
func SelectBest(ctx context.Context, pool *Pool, samples int, interval time.Duration) (Ranked, error) {
	collector := metrics.NewCollector()
	if err := Probe(ctx, pool, samples, interval, collector); err != nil {
		return Ranked{}, err
	}
	return Best(Rank(collector.Calculate()))
}
