// Package monitoring provides Prometheus metrics for the host: bridge request
// counters, provider call durations, terminal session gauges, and UI stream
// connection counts. Metrics live on a dedicated registry exposed at /metrics.
package monitoring
