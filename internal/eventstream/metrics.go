package eventstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are shared by all streams of a run.
type Metrics struct {
	EventsRead   *prometheus.CounterVec
	DecodeErrors *prometheus.CounterVec
}

// NewMetrics creates the stream metrics, registered with reg when it is not
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsRead: f.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_stream_events_read_total",
			Help: "Total number of raw events decoded, by source",
		}, []string{"source"}),
		DecodeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_decode_errors_total",
			Help: "Total number of undecodable lines skipped, by source",
		}, []string{"source"}),
	}
}
