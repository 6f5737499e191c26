// Package monitoring provides Prometheus metrics for the HTTP layer
// and the storage health subsystem.
//
// Exposed metric families:
//   - pathkeeper_http_requests_total / request_duration_seconds
//   - pathkeeper_storage_probes_total / probe_duration_seconds
//   - pathkeeper_storage_sweeps_total / sweep_duration_seconds
//   - pathkeeper_storage_paths_registered / paths_by_status
package monitoring
