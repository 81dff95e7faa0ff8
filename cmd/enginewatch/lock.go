package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// acquireLock makes sure only one instance writes the status file.
func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to attempt lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another enginewatch instance holds %s", path)
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock, log zerolog.Logger) {
	if err := lock.Unlock(); err != nil {
		log.Error().Err(err).Str("path", lock.Path()).Msg("failed to release lock")
	}
}
