package enginewatch

import "github.com/bft-labs/enginewatch/internal/app"

// ConnState is the supervisor's view of the engine connection.
type ConnState = app.ConnState

// Connection states.
const (
	StateDisconnected = app.StateDisconnected
	StateConnecting   = app.StateConnecting
	StateConnected    = app.StateConnected
	StateReconnecting = app.StateReconnecting
)

// RunState is the lifecycle of a Watcher.
type RunState = app.RunState

// Watcher lifecycle states.
const (
	RunStopped  = app.RunStopped
	RunStarting = app.RunStarting
	RunRunning  = app.RunRunning
	RunStopping = app.RunStopping
)

// ConnStateEvent describes one connection state transition.
type ConnStateEvent struct {
	Previous ConnState
	Current  ConnState
	Reason   string
}

// EventHandler receives connection state transitions.
type EventHandler interface {
	OnConnStateChange(event ConnStateEvent)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(event ConnStateEvent)

// OnConnStateChange calls f(event).
func (f EventHandlerFunc) OnConnStateChange(event ConnStateEvent) {
	f(event)
}

// eventEmitterWrapper adapts EventHandler to the internal observer interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnConnStateChange(previous, current app.ConnState, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnConnStateChange(ConnStateEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}
