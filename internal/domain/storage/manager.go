package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pathkeeper/backend/internal/infrastructure/logging"
	"github.com/pathkeeper/backend/internal/infrastructure/monitoring"
	"github.com/pathkeeper/backend/internal/shared/types"
)

var (
	// ErrDuplicateID is returned when adding a path whose id is taken
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownID is returned for operations on an unregistered id
	ErrUnknownID = errors.New("unknown id")
	// ErrDestroyed is returned for operations on a torn-down manager
	ErrDestroyed = errors.New("manager destroyed")
)

// Options configures a Manager instance
type Options struct {
	// Enabled gates the whole subsystem: when false the timer never
	// arms and path selection always returns nil.
	Enabled bool
	// HealthCheckInterval is the periodic sweep cadence. Non-positive
	// means the background timer is disabled.
	HealthCheckInterval time.Duration
	// ProbeTimeout bounds each individual path probe.
	ProbeTimeout time.Duration
	// StatsExcludes holds doublestar patterns skipped by the stats walk.
	StatsExcludes []string
}

// EventSink receives health-change notifications
type EventSink func(types.HealthEvent)

// Manager owns the path registry and its health status cache.
// The registry and the status map always share the same key set; every
// mutating operation maintains that invariant under a single lock.
type Manager struct {
	mu       sync.RWMutex
	paths    map[string]*types.StoragePathConfig
	statuses map[string]*types.HealthStatus
	order    []string

	prober   *Prober
	opts     Options
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	onEvent  EventSink
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// gen is bumped on Destroy so that in-flight probe results from a
	// previous lifetime are discarded instead of resurrecting entries.
	gen       uint64
	destroyed bool
}

// NewManager creates a storage manager. Call Start to arm the
// background sweep and Destroy to tear the instance down.
func NewManager(opts Options, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{
		paths:    make(map[string]*types.StoragePathConfig),
		statuses: make(map[string]*types.HealthStatus),
		prober:   NewProber(opts.ProbeTimeout),
		opts:     opts,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithEventSink registers a callback invoked whenever a probe changes a
// path's classification. The callback runs on the prober's goroutine
// and must not block.
func (m *Manager) WithEventSink(sink EventSink) *Manager {
	m.onEvent = sink
	return m
}

// Enabled reports whether the subsystem was constructed enabled
func (m *Manager) Enabled() bool {
	return m.opts.Enabled
}

// AddPath validates and registers a new path, then probes it
// synchronously so its status is never stale right after the add.
func (m *Manager) AddPath(ctx context.Context, cfg types.StoragePathConfig) types.Result {
	if v := ValidateConfig(cfg); !v.Valid {
		return types.Fail(v.Errors...)
	}

	m.mu.RLock()
	destroyed := m.destroyed
	_, exists := m.paths[cfg.ID]
	m.mu.RUnlock()
	if destroyed {
		return types.Fail(ErrDestroyed.Error())
	}
	if exists {
		return types.Fail(ErrDuplicateID.Error())
	}

	// Probe before taking the write lock so a hanging mount cannot
	// stall every other registry operation.
	status := m.probe(ctx, cfg.Path)

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return types.Fail(ErrDestroyed.Error())
	}
	if _, exists := m.paths[cfg.ID]; exists {
		m.mu.Unlock()
		return types.Fail(ErrDuplicateID.Error())
	}
	c := cfg
	m.paths[cfg.ID] = &c
	m.statuses[cfg.ID] = &status
	m.order = append(m.order, cfg.ID)
	m.mu.Unlock()

	m.logger.Info("storage path registered",
		zap.String("id", cfg.ID),
		zap.String("path", cfg.Path),
		zap.String("status", string(status.Status)),
	)
	m.publish(types.HealthEvent{PathID: cfg.ID, Health: status})
	m.updateGauges()
	return types.Ok()
}

// UpdatePath shallow-merges a partial update into an existing config.
// The path is only re-probed when the path field itself changed; cheap
// metadata edits stay free of filesystem I/O.
func (m *Manager) UpdatePath(ctx context.Context, id string, upd types.PathUpdate) types.Result {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return types.Fail(ErrDestroyed.Error())
	}
	cfg, ok := m.paths[id]
	if !ok {
		m.mu.Unlock()
		return types.Fail(ErrUnknownID.Error())
	}

	merged := *cfg
	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.Path != nil {
		merged.Path = *upd.Path
	}
	if upd.Kind != nil {
		merged.Kind = *upd.Kind
	}
	if upd.Enabled != nil {
		merged.Enabled = *upd.Enabled
	}
	if upd.Purpose != nil {
		merged.Purpose = *upd.Purpose
	}

	if v := ValidateConfig(merged); !v.Valid {
		m.mu.Unlock()
		return types.Fail(v.Errors...)
	}

	pathChanged := merged.Path != cfg.Path
	*cfg = merged
	gen := m.gen
	m.mu.Unlock()

	if pathChanged {
		status := m.probe(ctx, merged.Path)
		m.storeStatus(id, gen, status)
	}
	return types.Ok()
}

// RemovePath deletes a config and its health status in one critical
// section so no reader can observe one without the other.
func (m *Manager) RemovePath(id string) types.Result {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return types.Fail(ErrDestroyed.Error())
	}
	if _, ok := m.paths[id]; !ok {
		m.mu.Unlock()
		return types.Fail(ErrUnknownID.Error())
	}
	delete(m.paths, id)
	delete(m.statuses, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.logger.Info("storage path removed", zap.String("id", id))
	m.updateGauges()
	return types.Ok()
}

// ListPaths returns every config merged with its cached status, in
// registration order. Never triggers a probe.
func (m *Manager) ListPaths() []types.PathEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]types.PathEntry, 0, len(m.order))
	for _, id := range m.order {
		cfg, ok := m.paths[id]
		if !ok {
			continue
		}
		entries = append(entries, types.PathEntry{
			StoragePathConfig: *cfg,
			Health:            *m.statuses[id],
		})
	}
	return entries
}

// GetPath returns a single config merged with its cached status
func (m *Manager) GetPath(id string) (types.PathEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.paths[id]
	if !ok {
		return types.PathEntry{}, false
	}
	return types.PathEntry{StoragePathConfig: *cfg, Health: *m.statuses[id]}, true
}

// GetStatus returns the cached health status for a path id
func (m *Manager) GetStatus(id string) (types.HealthStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statuses[id]
	if !ok {
		return types.HealthStatus{}, false
	}
	return *status, true
}

// CheckAll probes every registered path concurrently and returns the
// fresh statuses keyed by id. Disabled paths are included so that
// re-enabling one is an informed decision. Safe to run while the
// background sweep is active; each status write is a full overwrite.
func (m *Manager) CheckAll(ctx context.Context) map[string]types.HealthStatus {
	m.mu.RLock()
	gen := m.gen
	targets := make(map[string]string, len(m.paths))
	for id, cfg := range m.paths {
		targets[id] = cfg.Path
	}
	m.mu.RUnlock()

	start := time.Now()
	results := make(map[string]types.HealthStatus, len(targets))
	var (
		resMu sync.Mutex
		wg    sync.WaitGroup
	)
	for id, path := range targets {
		wg.Add(1)
		go func(id, path string) {
			defer wg.Done()
			status := m.probe(ctx, path)
			m.storeStatus(id, gen, status)
			resMu.Lock()
			results[id] = status
			resMu.Unlock()
		}(id, path)
	}
	wg.Wait()

	if m.metrics != nil {
		m.metrics.RecordSweep(time.Since(start))
	}
	m.logger.Debug("health sweep finished",
		zap.Int("paths", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	m.updateGauges()
	return results
}

// Start arms the periodic sweep timer. It is a no-op when the
// subsystem is disabled or the interval is non-positive.
func (m *Manager) Start() {
	if !m.opts.Enabled || m.opts.HealthCheckInterval <= 0 {
		m.logger.Info("periodic health sweep disabled")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.opts.HealthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CheckAll(context.Background())
			case <-m.stopCh:
				return
			}
		}
	}()
	m.logger.Info("periodic health sweep armed",
		zap.Duration("interval", m.opts.HealthCheckInterval),
	)
}

// Destroy cancels the timer and clears the registry and status map.
// In-flight probes finish but their results are discarded. The
// instance is unusable afterwards; toggling the subsystem back on
// means constructing a fresh manager.
func (m *Manager) Destroy() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()

	m.mu.Lock()
	m.destroyed = true
	m.gen++
	m.paths = make(map[string]*types.StoragePathConfig)
	m.statuses = make(map[string]*types.HealthStatus)
	m.order = nil
	m.mu.Unlock()

	m.updateGauges()
	m.logger.Info("storage manager destroyed")
}

// probe runs a single probe and records its metrics
func (m *Manager) probe(ctx context.Context, path string) types.HealthStatus {
	start := time.Now()
	status := m.prober.Probe(ctx, path)
	if m.metrics != nil {
		m.metrics.RecordProbe(string(status.Status), time.Since(start))
	}
	if status.Status == types.StateUnavailable {
		m.logger.Warn("storage path unavailable",
			zap.String("path", path),
			zap.String("error", status.Error),
		)
	}
	return status
}

// storeStatus overwrites the cached status for id, dropping the write
// when the entry vanished or the manager was destroyed since the probe
// started. Emits a health event when the classification changed.
func (m *Manager) storeStatus(id string, gen uint64, status types.HealthStatus) {
	m.mu.Lock()
	if m.destroyed || m.gen != gen {
		m.mu.Unlock()
		return
	}
	prev, ok := m.statuses[id]
	if !ok {
		// Removed while the probe was in flight.
		m.mu.Unlock()
		return
	}
	prevState := prev.Status
	s := status
	m.statuses[id] = &s
	m.mu.Unlock()

	if prevState != status.Status {
		m.publish(types.HealthEvent{PathID: id, Previous: prevState, Health: status})
	}
}

func (m *Manager) publish(event types.HealthEvent) {
	if m.onEvent != nil {
		m.onEvent(event)
	}
}

func (m *Manager) updateGauges() {
	if m.metrics == nil {
		return
	}
	m.mu.RLock()
	total := len(m.paths)
	counts := map[types.HealthState]int{}
	for _, status := range m.statuses {
		counts[status.Status]++
	}
	m.mu.RUnlock()

	m.metrics.SetPathCounts(total, counts[types.StateHealthy],
		counts[types.StateDegraded], counts[types.StateUnavailable])
}

// Summary contains aggregate registry health figures
type Summary struct {
	TotalPaths  int `json:"total_paths"`
	Healthy     int `json:"healthy"`
	Degraded    int `json:"degraded"`
	Unavailable int `json:"unavailable"`
	Enabled     int `json:"enabled"`
}

// Stats returns aggregate counts over the registry
func (m *Manager) Stats() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Summary{TotalPaths: len(m.paths)}
	for id, status := range m.statuses {
		switch status.Status {
		case types.StateHealthy:
			s.Healthy++
		case types.StateDegraded:
			s.Degraded++
		case types.StateUnavailable:
			s.Unavailable++
		}
		if cfg, ok := m.paths[id]; ok && cfg.Enabled {
			s.Enabled++
		}
	}
	return s
}
