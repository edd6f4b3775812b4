package storage

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes session artifact directories past the retention window.
// Failures on one directory are logged and the sweep continues; running
// the sweep twice in a row is harmless.
type Sweeper struct {
	roots         []string
	retentionDays int
	logger        *zap.Logger
	now           func() time.Time
}

// NewSweeper creates a retention sweeper over the artifact roots
func NewSweeper(layout *Layout, retentionDays int, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		roots:         layout.Roots(),
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// PurgeExpired removes every session directory whose modification time is
// older than the retention window
func (s *Sweeper) PurgeExpired() {
	cutoff := s.now().Add(-time.Duration(s.retentionDays) * 24 * time.Hour)

	for _, root := range s.roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if !os.IsNotExist(err) && s.logger != nil {
				s.logger.Warn("failed to read artifact root", zap.String("root", root), zap.Error(err))
			}
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			info, err := entry.Info()
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to stat session directory", zap.String("path", path), zap.Error(err))
				}
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				if s.logger != nil {
					s.logger.Warn("failed to remove expired directory", zap.String("path", path), zap.Error(err))
				}
				continue
			}
			if s.logger != nil {
				s.logger.Info("removed expired session directory", zap.String("path", path))
			}
		}
	}
}
