package types

import "time"

// PathKind classifies how a storage location is attached
type PathKind string

const (
	KindLocal        PathKind = "local"
	KindNetworkShare PathKind = "networkShare"
)

// Valid reports whether the kind is a known value
func (k PathKind) Valid() bool {
	return k == KindLocal || k == KindNetworkShare
}

// HealthState represents the classified condition of a storage path
type HealthState string

const (
	StateHealthy     HealthState = "healthy"
	StateDegraded    HealthState = "degraded"
	StateUnavailable HealthState = "unavailable"
)

// StoragePathConfig describes one configured storage location
type StoragePathConfig struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Path    string   `json:"path" yaml:"path"`
	Kind    PathKind `json:"kind" yaml:"kind"`
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Purpose string   `json:"purpose" yaml:"purpose"`
}

// PathUpdate is a partial update for a registered path.
// Nil fields are left untouched by the merge.
type PathUpdate struct {
	Name    *string   `json:"name,omitempty"`
	Path    *string   `json:"path,omitempty"`
	Kind    *PathKind `json:"kind,omitempty"`
	Enabled *bool     `json:"enabled,omitempty"`
	Purpose *string   `json:"purpose,omitempty"`
}

// HealthStatus is the cached result of the most recent probe of a path
type HealthStatus struct {
	Status      HealthState `json:"status"`
	Accessible  bool        `json:"accessible"`
	Readable    bool        `json:"readable"`
	Writable    bool        `json:"writable"`
	Error       string      `json:"error,omitempty"`
	LastChecked time.Time   `json:"last_checked"`
}

// PathEntry is a config merged with its cached health status
type PathEntry struct {
	StoragePathConfig
	Health HealthStatus `json:"health"`
}

// StorageStats holds on-demand usage figures for one path
type StorageStats struct {
	FileCount      int64 `json:"file_count"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
	Available      bool  `json:"available"`
}

// HealthEvent is emitted when a probe changes a path's classification
type HealthEvent struct {
	PathID   string       `json:"path_id"`
	Previous HealthState  `json:"previous,omitempty"`
	Health   HealthStatus `json:"health"`
}

// Result is the structured outcome of a mutating storage operation
type Result struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// Ok returns a successful result
func Ok() Result {
	return Result{Success: true}
}

// Fail returns a failed result carrying one or more error messages
func Fail(errors ...string) Result {
	return Result{Success: false, Errors: errors}
}
