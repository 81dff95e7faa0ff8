package enginewatch

import "github.com/bft-labs/enginewatch/internal/domain"

// Errors returned by the Watcher. Check with errors.Is.
var (
	ErrAlreadyRunning     = domain.ErrAlreadyRunning
	ErrNotRunning         = domain.ErrNotRunning
	ErrStopped            = domain.ErrStopped
	ErrShutdownTimeout    = domain.ErrShutdownTimeout
	ErrInvalidConfig      = domain.ErrInvalidConfig
	ErrVersionUnavailable = domain.ErrVersionUnavailable
)
