package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pathkeeper/backend/internal/shared/types"
)

// DefaultProbeTimeout bounds a single probe when no timeout is configured.
// Network mounts can hang on stat, so the bound applies to every kind.
const DefaultProbeTimeout = 10 * time.Second

// Prober checks the real-world condition of filesystem paths
type Prober struct {
	timeout time.Duration
	check   func(path string) types.HealthStatus
}

// NewProber creates a prober with the given per-probe timeout.
// A non-positive timeout falls back to DefaultProbeTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{timeout: timeout, check: checkPath}
}

// Probe classifies a single path. It never returns an error: every
// failure mode, including a hung mount hitting the timeout, is folded
// into the returned HealthStatus.
func (p *Prober) Probe(ctx context.Context, path string) types.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan types.HealthStatus, 1)
	go func() {
		done <- p.check(path)
	}()

	select {
	case status := <-done:
		status.LastChecked = time.Now()
		return status
	case <-ctx.Done():
		msg := fmt.Sprintf("probe timed out after %s: %s", p.timeout, path)
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("probe canceled: %s", path)
		}
		return types.HealthStatus{
			Status:      types.StateUnavailable,
			Error:       msg,
			LastChecked: time.Now(),
		}
	}
}

// checkPath performs the blocking filesystem checks: stat, then a
// directory listing for readability, then a create-and-remove round
// trip for writability. Accessibility is decided first; read/write are
// not attempted on a path that failed stat.
func checkPath(path string) types.HealthStatus {
	info, err := os.Stat(path)
	if err != nil {
		return types.HealthStatus{
			Status: types.StateUnavailable,
			Error:  err.Error(),
		}
	}

	status := types.HealthStatus{Accessible: true}

	if !info.IsDir() {
		status.Status = types.StateUnavailable
		status.Error = fmt.Sprintf("not a directory: %s", path)
		return status
	}

	if _, err := os.ReadDir(path); err == nil {
		status.Readable = true
	}

	probeFile := filepath.Join(path, ".pathkeeper-probe-"+uuid.New().String())
	if f, err := os.Create(probeFile); err == nil {
		f.Close()
		status.Writable = true
		// Cleanup is best-effort; a failed remove must not change the
		// classification already computed.
		_ = os.Remove(probeFile)
	}

	switch {
	case status.Readable && status.Writable:
		status.Status = types.StateHealthy
	case status.Readable:
		status.Status = types.StateDegraded
	default:
		status.Status = types.StateUnavailable
		status.Error = fmt.Sprintf("directory is not listable: %s", path)
	}

	return status
}
