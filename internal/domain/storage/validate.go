package storage

import (
	"fmt"
	"path/filepath"

	"github.com/pathkeeper/backend/internal/shared/types"
)

// Validation holds the outcome of a structural config check
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateConfig checks a candidate path config for structural problems.
// All violations are accumulated so a caller can report everything wrong
// in one round trip. Pure function, no filesystem access.
func ValidateConfig(cfg types.StoragePathConfig) Validation {
	var errs []string

	if cfg.ID == "" {
		errs = append(errs, "id is required")
	}
	if cfg.Name == "" {
		errs = append(errs, "name is required")
	}
	if cfg.Path == "" {
		errs = append(errs, "path is required")
	} else if !filepath.IsAbs(cfg.Path) {
		errs = append(errs, fmt.Sprintf("path must be absolute: %s", cfg.Path))
	}
	if cfg.Kind == "" {
		errs = append(errs, "kind is required")
	} else if !cfg.Kind.Valid() {
		errs = append(errs, fmt.Sprintf("unknown kind: %s", cfg.Kind))
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}
