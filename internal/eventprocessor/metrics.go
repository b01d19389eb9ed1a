package eventprocessor

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the counters maintained by a Processor.
type Metrics struct {
	EventsReceived          *prometheus.CounterVec
	EventsForwarded         *prometheus.CounterVec
	InternedValues          *prometheus.CounterVec
	AnnouncementsSuppressed *prometheus.CounterVec
}

// NewMetrics creates the processor metrics and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_events_received_total",
			Help: "Total number of producer events processed, by kind",
		}, []string{"kind"}),
		EventsForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_events_forwarded_total",
			Help: "Total number of normalized events appended to the sink, by kind",
		}, []string{"kind"}),
		InternedValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_interned_values_total",
			Help: "Total number of distinct values assigned a global id, by pool",
		}, []string{"pool"}),
		AnnouncementsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capture_announcements_suppressed_total",
			Help: "Total number of producer announcements of a value that already had a global id",
		}, []string{"pool"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.EventsReceived,
			m.EventsForwarded,
			m.InternedValues,
			m.AnnouncementsSuppressed,
		)
	}

	return m
}
