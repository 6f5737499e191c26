package storage

import (
	"github.com/pathkeeper/backend/internal/shared/types"
)

// SelectBestPath returns the most suitable enabled path for a purpose,
// or nil when none qualifies. It only reads cached statuses and never
// touches the filesystem, so it is safe on a request path.
//
// Ranking: healthy beats degraded; unavailable paths are never
// candidates. Ties are broken by registration order, which keeps the
// choice deterministic for a given registry state.
func (m *Manager) SelectBestPath(purpose string) *types.PathEntry {
	if !m.opts.Enabled {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var degraded *types.PathEntry
	for _, id := range m.order {
		cfg, ok := m.paths[id]
		if !ok || !cfg.Enabled || cfg.Purpose != purpose {
			continue
		}
		status := m.statuses[id]
		switch status.Status {
		case types.StateHealthy:
			return &types.PathEntry{StoragePathConfig: *cfg, Health: *status}
		case types.StateDegraded:
			if degraded == nil {
				degraded = &types.PathEntry{StoragePathConfig: *cfg, Health: *status}
			}
		}
	}
	return degraded
}
