package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/axiom/pkg/scheduler"
)

const namespace = "axiom"

// Option configures a Collector.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
}

// WithRegisterer registers the collector's metrics with reg instead of
// prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithBuckets sets the command duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// Collector counts command invocations, applied actions and durations.
type Collector struct {
	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	running  *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics. It panics if
// registration fails, like prometheus.MustRegister.
func NewCollector(opts ...Option) *Collector {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		namespace:  namespace,
		buckets:    prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collector{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "scheduler",
			Name:      "commands_started_total",
			Help:      "Command invocations started.",
		}, []string{"command", "mode"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "scheduler",
			Name:      "commands_finished_total",
			Help:      "Command invocations finished, by outcome.",
		}, []string{"command", "mode", "outcome"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Subsystem: "scheduler",
			Name:      "actions_applied_total",
			Help:      "Actions applied to the store by commands.",
		}, []string{"command", "mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Subsystem: "scheduler",
			Name:      "command_duration_seconds",
			Help:      "Duration of command invocations.",
			Buckets:   o.buckets,
		}, []string{"command", "mode", "outcome"}),
		running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Subsystem: "scheduler",
			Name:      "commands_running",
			Help:      "Command invocations currently running.",
		}, []string{"command", "mode"}),
	}

	o.registerer.MustRegister(c.started, c.finished, c.actions, c.duration, c.running)
	return c
}

// OnCommandStart implements scheduler.EventHandler.
func (c *Collector) OnCommandStart(inv scheduler.Invocation) {
	c.started.WithLabelValues(inv.Command, inv.Mode.String()).Inc()
	c.running.WithLabelValues(inv.Command, inv.Mode.String()).Inc()
}

// OnActionApplied implements scheduler.EventHandler.
func (c *Collector) OnActionApplied(inv scheduler.Invocation) {
	c.actions.WithLabelValues(inv.Command, inv.Mode.String()).Inc()
}

// OnCommandFinish implements scheduler.EventHandler.
func (c *Collector) OnCommandFinish(inv scheduler.Invocation, outcome scheduler.Outcome, duration time.Duration, _ error) {
	mode := inv.Mode.String()
	c.running.WithLabelValues(inv.Command, mode).Dec()
	c.finished.WithLabelValues(inv.Command, mode, outcome.String()).Inc()
	c.duration.WithLabelValues(inv.Command, mode, outcome.String()).Observe(duration.Seconds())
}

var _ scheduler.EventHandler = (*Collector)(nil)
