// Package lock keeps two duplicity-front runs from working on the same
// configuration at once.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// Service defines the interface for acquiring the run lock.
type Service interface {
	Acquire(path string) (release func(), err error)
}

// Impl implements the lock Service interface with flock(2).
type Impl struct {
	logger zerolog.Logger
}

// New creates a new lock service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{logger: logger}
}

// PathFor returns the lock file used for a configuration file when none
// is configured explicitly.
func PathFor(configFile string) string {
	return configFile + ".lock"
}

// Acquire takes an exclusive lock on path without waiting. The returned
// function releases it.
func (s *Impl) Acquire(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another duplicity-front instance holds %s", path)
	}

	s.logger.Debug().Str("file", path).Msg("lock acquired")

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn().Err(err).Str("file", path).Msg("failed to release lock")
			return
		}
		s.logger.Debug().Str("file", path).Msg("lock released")
	}, nil
}
