// Package metric provides Prometheus metrics for NetKeep.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: registry, event counters and HTTP handler
//   - collector.go: scrape-time gauges read from the running daemon
//
// Metrics include:
//
//   - Reconcile cycles by result
//   - Hotspot transitions and connection attempts
//   - External command failures
//   - Settings flushes and the dirty flag
//   - Management API requests
//
// Metrics are exposed at /metrics on the management socket.
package metric
