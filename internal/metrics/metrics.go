package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fintrack"

// Recorder exposes HTTP and business metrics on its own registry. It
// satisfies service.MetricsRecorder.
type Recorder struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	budgetRejections  *prometheus.CounterVec
	analyticsDuration *prometheus.HistogramVec
	eventsPublished   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		budgetRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "budget_validation_rejections_total",
				Help:      "Total number of budgets rejected by validation rule",
			},
			[]string{"rule"},
		),
		analyticsDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_duration_seconds",
				Help:      "Analytics computation duration in seconds by operation",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of live-update events published by type",
			},
			[]string{"type"},
		),
	}
}

// BudgetRejected counts a budget rejected by rule
func (r *Recorder) BudgetRejected(rule string) {
	r.budgetRejections.WithLabelValues(rule).Inc()
}

// ObserveAnalytics records how long an analytics operation took
func (r *Recorder) ObserveAnalytics(operation string, elapsed time.Duration) {
	r.analyticsDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// EventPublished counts a live-update event such as "budget.created"
func (r *Recorder) EventPublished(eventType string) {
	r.eventsPublished.WithLabelValues(eventType).Inc()
}

// TrackConnections exposes count as the open websocket connection gauge.
// Call it once per Recorder.
func (r *Recorder) TrackConnections(count func() int) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Number of open websocket connections",
		},
		func() float64 { return float64(count()) },
	))
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Middleware records a request count and latency for every request. The
// route label is the registered path pattern, so IDs do not explode the
// label set.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			r.httpRequests.WithLabelValues(method, route, status).Inc()
			r.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
