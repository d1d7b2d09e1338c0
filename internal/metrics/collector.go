package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/guanqun/uethers/internal/stats"
)

// ProviderStatus is the health verdict for a provider.
type ProviderStatus string

const (
	StatusUp       ProviderStatus = "UP"
	StatusSlow     ProviderStatus = "SLOW"
	StatusDegraded ProviderStatus = "DEGRADED"
	StatusDown     ProviderStatus = "DOWN"
)

// Sample is one timed call against a provider. Block is the height the call
// reported, when it reported one.
type Sample struct {
	Provider string
	Latency  time.Duration
	Block    uint64
	Err      error
}

// ProviderHealth is what Calculate derives from a provider's samples.
type ProviderHealth struct {
	Name        string         `json:"name"`
	Status      ProviderStatus `json:"status"`
	Latency     stats.Latency  `json:"latency"`
	SuccessRate float64        `json:"successRate"`
	TotalCalls  int            `json:"totalCalls"`
	Failures    int            `json:"failures"`
	Errors      map[string]int `json:"errors"` // outcome label -> count
	LatestBlock uint64         `json:"latestBlock"`
}

// Collector accumulates samples from concurrent probes.
type Collector struct {
	mu      sync.Mutex
	samples map[string][]Sample
}

func NewCollector() *Collector {
	return &Collector{samples: make(map[string][]Sample)}
}

func (c *Collector) Add(s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[s.Provider] = append(c.samples[s.Provider], s)
}

// Calculate returns one entry per provider, ordered by name.
func (c *Collector) Calculate() []ProviderHealth {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ProviderHealth, 0, len(c.samples))
	for name, samples := range c.samples {
		out = append(out, calculate(name, samples))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func calculate(name string, samples []Sample) ProviderHealth {
	h := ProviderHealth{Name: name, Errors: make(map[string]int)}
	if len(samples) == 0 {
		h.Status = StatusDown
		return h
	}

	var latencies []time.Duration
	for _, s := range samples {
		h.TotalCalls++
		if s.Err != nil {
			h.Failures++
			h.Errors[Outcome(s.Err)]++
			continue
		}
		latencies = append(latencies, s.Latency)
		h.LatestBlock = max(h.LatestBlock, s.Block)
	}

	h.SuccessRate = float64(len(latencies)) / float64(h.TotalCalls) * 100
	h.Latency = stats.Summarize(latencies)
	h.Status = determineStatus(h.SuccessRate, h.Latency.P95)
	return h
}

func determineStatus(successRate float64, p95 time.Duration) ProviderStatus {
	const (
		downThreshold     = 50.0
		degradedThreshold = 90.0
		slowLatency       = 500 * time.Millisecond
	)

	switch {
	case successRate < downThreshold:
		return StatusDown
	case successRate < degradedThreshold:
		return StatusDegraded
	case p95 > slowLatency:
		return StatusSlow
	default:
		return StatusUp
	}
}
