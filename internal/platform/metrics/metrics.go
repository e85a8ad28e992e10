package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the relay page service.
type Metrics struct {
	PagesRendered    prometheus.Counter
	PagesRejected    *prometheus.CounterVec
	RenderDuration   prometheus.Histogram
	RequestsByStatus *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		PagesRendered: factory.NewCounter(prometheus.CounterOpts{
			Name: "iirelay_pages_rendered_total",
			Help: "Total number of relay pages rendered with a login trigger",
		}),
		PagesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iirelay_pages_rejected_total",
			Help: "Total number of relay pages rendered with an initialization error",
		}, []string{"code"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "iirelay_page_render_duration_seconds",
			Help:    "Time spent rendering the relay page",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		RequestsByStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iirelay_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
	}
}

// IncrementPagesRendered counts a page served with a usable trigger.
func (m *Metrics) IncrementPagesRendered() {
	m.PagesRendered.Inc()
}

// IncrementPagesRejected counts a page served with an error, by error code.
func (m *Metrics) IncrementPagesRejected(code string) {
	m.PagesRejected.WithLabelValues(code).Inc()
}

// ObserveRenderDuration records how long a page render took.
func (m *Metrics) ObserveRenderDuration(d time.Duration) {
	m.RenderDuration.Observe(d.Seconds())
}

// ObserveRequest counts a finished request.
func (m *Metrics) ObserveRequest(route string, status int) {
	m.RequestsByStatus.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
