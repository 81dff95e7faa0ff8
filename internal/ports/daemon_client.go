package ports

import (
	"context"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// DaemonClient opens connections to the engine's control socket.
type DaemonClient interface {
	// Connect prepares a connection. It may succeed without contacting the
	// engine; the first call on the returned DaemonConn is the real probe.
	Connect(ctx context.Context) (DaemonConn, error)
}

// DaemonConn is an established engine connection. Every call may fail or
// hang, so callers always pass a context with a deadline.
type DaemonConn interface {
	// Version returns the engine's version facts.
	Version(ctx context.Context) (domain.EngineVersion, error)

	// Ping checks that the engine answers.
	Ping(ctx context.Context) error

	// ListResources returns the number of managed resources (containers).
	ListResources(ctx context.Context) (int, error)

	// Events subscribes to the engine's event stream. The stream is not
	// restartable: after an error or close, subscribe again.
	Events(ctx context.Context) EventStream

	// Close releases the connection.
	Close() error
}

// DaemonEvent is a single engine event. Only its arrival matters to the
// supervisor; the fields are kept for logging.
type DaemonEvent struct {
	Type   string
	Action string
	Actor  string
}

// EventStream carries engine events until Err yields a value or Events closes.
type EventStream struct {
	Events <-chan DaemonEvent
	Err    <-chan error
}
