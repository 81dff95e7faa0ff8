package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// DefaultFileName is the status file name inside the state directory.
const DefaultFileName = "status.json"

// SnapshotFileRepository implements ports.SnapshotRepository using a JSON file.
// Only the latest snapshot is kept.
type SnapshotFileRepository struct {
	path string
}

// NewSnapshotFileRepository creates a repository writing to path.
func NewSnapshotFileRepository(path string) *SnapshotFileRepository {
	return &SnapshotFileRepository{path: path}
}

// Load reads the last saved snapshot. ok is false if no file exists yet.
func (r *SnapshotFileRepository) Load(ctx context.Context) (domain.StatusSnapshot, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StatusSnapshot{}, false, nil
		}
		return domain.StatusSnapshot{}, false, err
	}

	var snap domain.StatusSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.StatusSnapshot{}, false, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return snap, true, nil
}

// Save replaces the file contents atomically, so readers never observe a
// partial write.
func (r *SnapshotFileRepository) Save(ctx context.Context, snapshot domain.StatusSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return atomic.WriteFile(r.path, bytes.NewReader(data))
}

// Path returns the full path to the status file.
func (r *SnapshotFileRepository) Path() string {
	return r.path
}
