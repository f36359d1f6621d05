// Package metrics exports scheduler events to Prometheus.
//
// A Collector implements scheduler.EventHandler:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(metrics.WithRegisterer(reg))
//	sch := scheduler.New(ctx, store, scheduler.WithEventHandler(collector))
//
// Metrics are labeled by command name and scheduling mode. Job IDs are never
// used as labels.
package metrics
