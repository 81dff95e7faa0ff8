package ports

import (
	"context"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// SnapshotRepository persists the latest snapshot so other processes can read
// it. Only the most recent snapshot is kept.
type SnapshotRepository interface {
	// Load retrieves the last saved snapshot.
	// Returns ok=false and nil error if nothing has been saved yet.
	Load(ctx context.Context) (snapshot domain.StatusSnapshot, ok bool, err error)

	// Save replaces the stored snapshot atomically.
	Save(ctx context.Context, snapshot domain.StatusSnapshot) error
}
