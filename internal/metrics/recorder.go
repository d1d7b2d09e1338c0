package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var RPCLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Recorder counts rpc calls per provider, method and outcome. It satisfies
// rpc.Observer.
type Recorder struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	return &Recorder{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uethers_rpc_requests_total",
				Help: "Total number of JSON-RPC calls",
			},
			[]string{"provider", "method", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "uethers_rpc_request_duration_seconds",
				Help:    "JSON-RPC call duration in seconds, decode included",
				Buckets: RPCLatencyBuckets,
			},
			[]string{"provider", "method"},
		),
	}
}

// Register registers all collectors with reg.
func (r *Recorder) Register(reg prometheus.Registerer) {
	reg.MustRegister(r.RequestsTotal, r.RequestDuration)
}

func (r *Recorder) ObserveCall(provider, method string, elapsed time.Duration, err error) {
	r.RequestsTotal.WithLabelValues(provider, method, Outcome(err)).Inc()
	r.RequestDuration.WithLabelValues(provider, method).Observe(elapsed.Seconds())
}

// Handler exposes the series gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
