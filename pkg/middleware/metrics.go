package middleware

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/router"
)

// notFoundLabel is the route label of navigations that matched nothing.
const notFoundLabel = "not_found"

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "parkdash").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "parkdash",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the dashboard's Prometheus collectors.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	navigationErrors   *prometheus.CounterVec
	activeSessions     prometheus.Gauge
	wsErrors           *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, so build one Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route, operation and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "op", "status"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		navigationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_errors_total",
			Help:        "Total number of aborted navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Middleware returns navigation middleware recording count, duration and
// errors. A nil Metrics yields a pass-through middleware.
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(nav *router.Navigation, next func() error) error {
		if m == nil {
			return next()
		}
		route := routeLabel(nav)
		start := time.Now()

		err := next()

		m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if err != nil {
			m.navigationErrors.WithLabelValues(route, categorizeError(err)).Inc()
			m.navigationsTotal.WithLabelValues(route, string(nav.Op), "error").Inc()
			return err
		}
		m.navigationsTotal.WithLabelValues(route, string(nav.Op), statusLabel(nav)).Inc()
		return nil
	})
}

// SessionOpened records a new WebSocket session.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.activeSessions.Inc()
	}
}

// SessionClosed records a WebSocket session ending.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

// WebSocketError records a WebSocket error of the given type.
func (m *Metrics) WebSocketError(errorType string) {
	if m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}

func routeLabel(nav *router.Navigation) string {
	if name := nav.RouteName(); name != "" {
		return name
	}
	return notFoundLabel
}

func statusLabel(nav *router.Navigation) string {
	switch {
	case nav.Duplicate:
		return "duplicate"
	case nav.Redirected:
		return "redirected"
	case !nav.Matched():
		return "not_found"
	default:
		return "ok"
	}
}

// categorizeError returns a low-cardinality label for err: its error code
// when it carries one, otherwise a coarse category.
func categorizeError(err error) string {
	if code := perrors.CodeOf(err); code != "" {
		return code
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "canceled"):
		return "canceled"
	case strings.Contains(msg, "unauthorized"), strings.Contains(msg, "forbidden"):
		return "forbidden"
	default:
		return "internal"
	}
}
