package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathkeeper/backend/internal/shared/types"
)

// Seeder loads an initial set of path entries from a YAML file
type Seeder struct {
	manager *Manager
	file    string
}

// NewSeeder creates a seeder reading from the given file
func NewSeeder(manager *Manager, file string) *Seeder {
	return &Seeder{manager: manager, file: file}
}

type seedFile struct {
	Paths []types.StoragePathConfig `yaml:"paths"`
}

// Seed registers every entry from the seed file. Entries without an id
// get a generated one. Invalid entries are logged and skipped so a
// single bad line cannot block startup.
func (s *Seeder) Seed(ctx context.Context) error {
	if s.file == "" {
		return nil
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			s.manager.logger.Warn("seed file not found", zap.String("file", s.file))
			return nil
		}
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", s.file, err)
	}

	var loaded, skipped int
	for _, cfg := range seed.Paths {
		if cfg.ID == "" {
			cfg.ID = uuid.New().String()
		}
		if res := s.manager.AddPath(ctx, cfg); !res.Success {
			skipped++
			s.manager.logger.Warn("skipping seed entry",
				zap.String("id", cfg.ID),
				zap.String("reason", strings.Join(res.Errors, "; ")),
			)
			continue
		}
		loaded++
	}

	s.manager.logger.Info("seeded storage paths",
		zap.String("file", s.file),
		zap.Int("loaded", loaded),
		zap.Int("skipped", skipped),
	)
	return nil
}
