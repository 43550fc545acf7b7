// Package navmetrics exposes Prometheus metrics for a history.History.
//
//	reg := prometheus.NewRegistry()
//	h := history.New(src, history.WithObserver(navmetrics.New(navmetrics.WithRegistry(reg))))
//
// Metrics collected:
//   - vgnav_navigations_total: Counter of location changes by action (push, replace, pop)
//   - vgnav_navigation_fallbacks_total: Counter of full document navigations after a failed push/replace
//   - vgnav_transitions_in_flight: Gauge of transitions waiting for completion
//   - vgnav_transition_duration_seconds: Histogram of navigate-to-complete time
package navmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vugu/vgnav/history"
)

// Config configures the metrics observer.
type Config struct {
	// Namespace is the metrics namespace (default: "vgnav").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vgnav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer implements history.Observer by recording Prometheus metrics.
type Observer struct {
	navigations        *prometheus.CounterVec
	fallbacks          prometheus.Counter
	inFlight           prometheus.Gauge
	transitionDuration prometheus.Histogram
}

var _ history.Observer = (*Observer)(nil)

// New registers the metrics and returns the observer. Registering twice on the
// same registry panics, as with promauto.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of location changes by action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_fallbacks_total",
			Help:        "Total number of full document navigations after a failed history update",
			ConstLabels: config.ConstLabels,
		}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_in_flight",
			Help:        "Number of transitions waiting for the UI to commit",
			ConstLabels: config.ConstLabels,
		}),

		transitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Time from navigation to transition completion in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Navigated implements history.Observer.
func (o *Observer) Navigated(u history.Update) {
	o.navigations.WithLabelValues(u.Action.String()).Inc()
}

// TransitionStarted implements history.Observer.
func (o *Observer) TransitionStarted(*history.Transition) {
	o.inFlight.Inc()
}

// TransitionCompleted implements history.Observer.
func (o *Observer) TransitionCompleted(t *history.Transition) {
	o.inFlight.Dec()
	o.transitionDuration.Observe(t.Duration().Seconds())
}

// FallbackUsed implements history.Observer.
func (o *Observer) FallbackUsed(string, error) {
	o.fallbacks.Inc()
}
