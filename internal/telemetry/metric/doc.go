// Package metric provides Prometheus metrics for the preview servers.
//
// A Registry owns its own prometheus.Registry so tests and multiple
// servers in one process never collide on the global default registerer.
//
// Metrics include:
//
//   - Request counters and latency histograms per listener
//   - Content change counter fed by the file watcher
//   - Certificate generation and fallback counters
//
// Metrics are exposed through Handler in the Prometheus text format when
// metrics.addr is configured.
package metric
