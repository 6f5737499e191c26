package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/pathkeeper/backend/internal/shared/types"
)

// PathStats walks a registered path's directory tree and returns its
// file count and total size. Computed on demand, never cached. An
// inaccessible path yields available=false with zeroed counters rather
// than an error; only an unknown id is an error to the caller.
func (m *Manager) PathStats(ctx context.Context, id string) (types.StorageStats, error) {
	m.mu.RLock()
	cfg, ok := m.paths[id]
	if !ok {
		m.mu.RUnlock()
		return types.StorageStats{}, ErrUnknownID
	}
	root := cfg.Path
	m.mu.RUnlock()

	if _, err := os.Stat(root); err != nil {
		return types.StorageStats{}, nil
	}

	var fileCount, totalSize int64
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && m.excluded(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		atomic.AddInt64(&fileCount, 1)
		atomic.AddInt64(&totalSize, info.Size())
		return nil
	})
	if err != nil {
		return types.StorageStats{}, nil
	}

	return types.StorageStats{
		FileCount:      fileCount,
		TotalSizeBytes: totalSize,
		Available:      true,
	}, nil
}

// excluded matches a path relative to the walk root against the
// configured exclude globs
func (m *Manager) excluded(rel string) bool {
	for _, pattern := range m.opts.StatsExcludes {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
