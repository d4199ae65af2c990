// Package metrics exposes Prometheus counters for the reactive runtime
// and the pre-renderer. Collection is opt-in: nothing is registered
// until Enable is called, and every Record function is a no-op before
// that.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures metric registration.
type Config struct {
	// Namespace is the metrics namespace (default: "indulgent").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures metric registration.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "indulgent",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	signalWrites   prometheus.Counter
	flushesTotal   prometheus.Counter
	bindingsTotal  *prometheus.CounterVec
	bindingErrors  *prometheus.CounterVec
	rowsRendered   prometheus.Counter
	pagesRendered  *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

var (
	global   *metrics
	globalMu sync.Mutex
)

func initMetrics(config Config) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "signal_writes_total",
			Help:        "Total number of accepted signal writes",
			ConstLabels: config.ConstLabels,
		}),

		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "scheduler_flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		bindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "bindings_total",
			Help:        "Total number of bindings wired, by direction",
			ConstLabels: config.ConstLabels,
		}, []string{"direction"}),

		bindingErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "binding_errors_total",
			Help:        "Total number of binding warnings, by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		rowsRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "list_rows_rendered_total",
			Help:        "Total number of list rows cloned into documents",
			ConstLabels: config.ConstLabels,
		}),

		pagesRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "pages_rendered_total",
			Help:        "Total number of pages pre-rendered, by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "page_render_duration_seconds",
			Help:        "Pre-render duration per page in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Enable registers the collectors. Safe to call more than once; only
// the first call's options take effect.
func Enable(opts ...Option) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = initMetrics(config)
	}
}

// RecordSignalWrite records one accepted signal write.
func RecordSignalWrite() {
	if global != nil {
		global.signalWrites.Inc()
	}
}

// RecordFlush records one scheduler flush.
func RecordFlush() {
	if global != nil {
		global.flushesTotal.Inc()
	}
}

// RecordBinding records a wired binding. Direction is "in" or "out".
func RecordBinding(direction string) {
	if global != nil {
		global.bindingsTotal.WithLabelValues(direction).Inc()
	}
}

// RecordBindingError records a binding warning by error code.
func RecordBindingError(code string) {
	if global != nil {
		global.bindingErrors.WithLabelValues(code).Inc()
	}
}

// RecordRows records rows cloned by a list region.
func RecordRows(count int) {
	if global != nil {
		global.rowsRendered.Add(float64(count))
	}
}

// RecordPage records a pre-rendered page and its duration in seconds.
func RecordPage(status string, seconds float64) {
	if global != nil {
		global.pagesRendered.WithLabelValues(status).Inc()
		global.renderDuration.Observe(seconds)
	}
}
