package instrument

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/statekit-dev/statekit/pkg/store"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "statekit",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// promObserver implements store.Observer backed by Prometheus metrics.
type promObserver struct {
	dispatchesTotal  *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	unknownActions   prometheus.Counter
	listeners        prometheus.Gauge
}

// Prometheus creates a store observer that records dispatch metrics.
//
// Metrics collected:
//   - statekit_dispatches_total: Counter of dispatches by action and status
//   - statekit_dispatch_duration_seconds: Histogram of dispatch duration by action
//   - statekit_unknown_actions_total: Counter of dispatches to unknown actions
//   - statekit_listeners: Gauge of currently subscribed listeners
//
// Example:
//
//	s := store.New(
//	    store.WithObserver(instrument.Prometheus(
//	        instrument.WithNamespace("myapp"),
//	    )),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) store.Observer {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &promObserver{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of dispatches processed",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		unknownActions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unknown_actions_total",
			Help:        "Total number of dispatches to unregistered actions",
			ConstLabels: config.ConstLabels,
		}),

		listeners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners",
			Help:        "Number of currently subscribed listeners",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveDispatch implements store.Observer.
func (o *promObserver) ObserveDispatch(rec store.DispatchRecord) {
	status := "success"
	switch {
	case errors.Is(rec.Err, store.ErrUnknownAction):
		status = "unknown"
		o.unknownActions.Inc()
	case errors.Is(rec.Err, store.ErrPayloadType):
		status = "rejected"
	case rec.Err != nil:
		status = "error"
	}

	o.dispatchesTotal.WithLabelValues(rec.ActionID, status).Inc()
	o.dispatchDuration.WithLabelValues(rec.ActionID).Observe(rec.Duration.Seconds())
}

// ObserveListeners implements store.Observer.
func (o *promObserver) ObserveListeners(count int) {
	o.listeners.Set(float64(count))
}
