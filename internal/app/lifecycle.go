package app

import (
	"errors"
	"sync"

	"github.com/bft-labs/enginewatch/internal/ports"
)

// ErrInvalidTransition is returned when a connection state change is not allowed.
var ErrInvalidTransition = errors.New("enginewatch: invalid connection state transition")

// ConnState is the supervisor's view of the engine connection.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

// String returns a human-readable representation of the state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateReconnecting:
		return "Reconnecting"
	default:
		return "Unknown"
	}
}

// ConnStateObserver is called when the connection state changes.
type ConnStateObserver interface {
	OnConnStateChange(previous, current ConnState, reason string)
}

// connTracker is the connection state machine. Transitions may come from the
// supervisor loop and from the event monitor, so it carries its own lock.
type connTracker struct {
	mu       sync.Mutex
	state    ConnState
	logger   ports.Logger
	observer ConnStateObserver
}

func newConnTracker(logger ports.Logger, observer ConnStateObserver) *connTracker {
	return &connTracker{
		state:    StateDisconnected,
		logger:   logger,
		observer: observer,
	}
}

// State returns the current connection state.
func (c *connTracker) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TransitionTo moves to newState if the transition is allowed.
func (c *connTracker) TransitionTo(newState ConnState, reason string) error {
	c.mu.Lock()
	oldState := c.state
	if !validTransition(oldState, newState) {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.state = newState
	c.mu.Unlock()

	// Notify outside of lock
	if c.observer != nil {
		c.observer.OnConnStateChange(oldState, newState, reason)
	}

	c.logger.Info("connection state",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)
	return nil
}

func validTransition(from, to ConnState) bool {
	switch from {
	case StateDisconnected:
		return to == StateConnecting
	case StateConnecting:
		return to == StateConnected || to == StateReconnecting
	case StateConnected:
		return to == StateDisconnected
	case StateReconnecting:
		return to == StateConnecting
	default:
		return false
	}
}
