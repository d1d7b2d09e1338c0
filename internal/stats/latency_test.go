package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(n ...int) []time.Duration {
	out := make([]time.Duration, len(n))
	for i, v := range n {
		out[i] = time.Duration(v) * time.Millisecond
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		samples []time.Duration
		want    Latency
	}{
		{"empty", nil, Latency{}},
		{
			name:    "single",
			samples: ms(40),
			want:    Latency{Count: 1, Mean: 40 * time.Millisecond, P50: 40 * time.Millisecond, P95: 40 * time.Millisecond, P99: 40 * time.Millisecond, Max: 40 * time.Millisecond},
		},
		{
			name:    "unsorted small set",
			samples: ms(30, 10, 20, 40),
			want:    Latency{Count: 4, Mean: 25 * time.Millisecond, P50: 20 * time.Millisecond, P95: 40 * time.Millisecond, P99: 40 * time.Millisecond, Max: 40 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.samples))
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	samples := ms(3, 1, 2)
	Summarize(samples)
	assert.Equal(t, ms(3, 1, 2), samples)
}

func TestPercentile(t *testing.T) {
	sorted := ms(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20)

	assert.Equal(t, 10*time.Millisecond, Percentile(sorted, 0.50))
	assert.Equal(t, 19*time.Millisecond, Percentile(sorted, 0.95))
	assert.Equal(t, 20*time.Millisecond, Percentile(sorted, 0.99))
	assert.Equal(t, 1*time.Millisecond, Percentile(sorted, 0))
	assert.Equal(t, time.Duration(0), Percentile(nil, 0.5))
}
