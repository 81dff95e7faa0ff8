package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the enginewatch domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("enginewatch: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("enginewatch: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("enginewatch: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("enginewatch: invalid configuration")

	// ErrStopped is returned when Start() is called on an instance that was stopped.
	ErrStopped = errors.New("enginewatch: watcher stopped")

	// ErrVersionUnavailable is returned when no engine version is known.
	ErrVersionUnavailable = errors.New("enginewatch: engine version not available")
)

// ConnectErrorKind classifies why talking to the engine failed.
type ConnectErrorKind int

const (
	KindNotRunning ConnectErrorKind = iota
	KindStartingUp
	KindTimeout
	KindConnectionLost
	KindRestarting
	KindConnectionFailed
)

// String returns a human-readable representation of the kind.
func (k ConnectErrorKind) String() string {
	switch k {
	case KindNotRunning:
		return "NotRunning"
	case KindStartingUp:
		return "StartingUp"
	case KindTimeout:
		return "Timeout"
	case KindConnectionLost:
		return "ConnectionLost"
	case KindRestarting:
		return "Restarting"
	case KindConnectionFailed:
		return "ConnectionFailed"
	default:
		return "Unknown"
	}
}

// Sentinels matching each kind, for use with errors.Is.
var (
	ErrEngineNotRunning = &ConnectError{Kind: KindNotRunning}
	ErrEngineStartingUp = &ConnectError{Kind: KindStartingUp}
	ErrEngineTimeout    = &ConnectError{Kind: KindTimeout}
	ErrConnectionLost   = &ConnectError{Kind: KindConnectionLost}
	ErrEngineRestarting = &ConnectError{Kind: KindRestarting}
	ErrConnectionFailed = &ConnectError{Kind: KindConnectionFailed}
)

// ConnectError is a classified engine failure. Detail carries the raw cause;
// it is logged but never surfaced in a snapshot.
type ConnectError struct {
	Kind   ConnectErrorKind
	Detail string
}

// NewConnectError builds a ConnectError of the given kind.
func NewConnectError(kind ConnectErrorKind, detail string) *ConnectError {
	return &ConnectError{Kind: kind, Detail: detail}
}

func (e *ConnectError) Error() string {
	if e.Detail == "" {
		return "engine: " + e.Kind.String()
	}
	return fmt.Sprintf("engine: %s: %s", e.Kind, e.Detail)
}

// Is matches any ConnectError of the same kind.
func (e *ConnectError) Is(target error) bool {
	t, ok := target.(*ConnectError)
	return ok && t.Kind == e.Kind
}

// Message returns the text shown to consumers for this failure.
func (e *ConnectError) Message(daemon string) string {
	switch e.Kind {
	case KindNotRunning:
		return daemon + " is not running"
	case KindStartingUp:
		return daemon + " is starting up"
	case KindTimeout:
		return daemon + " connection timeout"
	case KindConnectionLost:
		return daemon + " connection lost"
	case KindRestarting:
		return daemon + " is restarting"
	default:
		return daemon + " connection failed"
	}
}

// NotRespondingMessage is used when a ping to a connected engine fails.
func NotRespondingMessage(daemon string) string {
	return daemon + " is not responding"
}
