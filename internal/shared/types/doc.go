// Package types provides shared data structures for the pathkeeper
// backend.
//
// Core Types:
//   - StoragePathConfig: User-supplied description of a storage location
//   - PathUpdate: Partial update with nil-means-unchanged semantics
//   - HealthStatus: Cached result of the most recent probe
//   - PathEntry: Config merged with its health status
//   - StorageStats: On-demand file count and total size
//   - HealthEvent: Emitted when a probe changes a classification
//   - Result: Standard mutating-operation outcome
//
// State Management:
//   - PathKind: local vs networkShare (informational tag)
//   - HealthState: healthy, degraded, unavailable
package types
