package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockObserver records connection state changes.
type mockObserver struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous ConnState
	current  ConnState
	reason   string
}

func (m *mockObserver) OnConnStateChange(previous, current ConnState, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockObserver) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

func TestConnState_String(t *testing.T) {
	tests := []struct {
		state ConnState
		want  string
	}{
		{StateDisconnected, "Disconnected"},
		{StateConnecting, "Connecting"},
		{StateConnected, "Connected"},
		{StateReconnecting, "Reconnecting"},
		{ConnState(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ConnState(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestConnTracker_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ConnState
		to   ConnState
	}{
		{"disconnected to connecting", StateDisconnected, StateConnecting},
		{"connecting to connected", StateConnecting, StateConnected},
		{"connecting to reconnecting", StateConnecting, StateReconnecting},
		{"connected to disconnected", StateConnected, StateDisconnected},
		{"reconnecting to connecting", StateReconnecting, StateConnecting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConnTracker(mockLogger{}, nil)
			c.state = tt.from

			if err := c.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if c.State() != tt.to {
				t.Errorf("state = %v, want %v", c.State(), tt.to)
			}
		})
	}
}

func TestConnTracker_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ConnState
		to   ConnState
	}{
		{"disconnected to connected", StateDisconnected, StateConnected},
		{"connected to connecting", StateConnected, StateConnecting},
		{"connected to reconnecting", StateConnected, StateReconnecting},
		{"reconnecting to connected", StateReconnecting, StateConnected},
		{"connecting to connecting", StateConnecting, StateConnecting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConnTracker(mockLogger{}, nil)
			c.state = tt.from

			err := c.TransitionTo(tt.to, "test")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("TransitionTo() error = %v, want ErrInvalidTransition", err)
			}
			if c.State() != tt.from {
				t.Errorf("state changed to %v on invalid transition", c.State())
			}
		})
	}
}

func TestConnTracker_NotifiesObserver(t *testing.T) {
	obs := &mockObserver{}
	c := newConnTracker(mockLogger{}, obs)

	_ = c.TransitionTo(StateConnecting, "first attempt")
	_ = c.TransitionTo(StateReconnecting, "not running")

	events := obs.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].previous != StateConnecting || events[1].current != StateReconnecting {
		t.Errorf("event = %+v", events[1])
	}
	if events[1].reason != "not running" {
		t.Errorf("reason = %q", events[1].reason)
	}
}

func TestRunGuard_StartStop(t *testing.T) {
	g := NewRunGuard(mockLogger{})

	if err := g.Started(); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("Started() before BeginStart = %v", err)
	}
	if err := g.BeginStart(); err != nil {
		t.Fatalf("BeginStart() = %v", err)
	}
	if err := g.BeginStart(); !errors.Is(err, domain.ErrAlreadyRunning) {
		t.Errorf("second BeginStart() = %v, want ErrAlreadyRunning", err)
	}
	if err := g.Started(); err != nil {
		t.Fatalf("Started() = %v", err)
	}
	if g.State() != RunRunning {
		t.Errorf("state = %v, want Running", g.State())
	}
	if err := g.BeginStop(); err != nil {
		t.Fatalf("BeginStop() = %v", err)
	}
	if err := g.Stopped(); err != nil {
		t.Fatalf("Stopped() = %v", err)
	}
	if err := g.BeginStop(); !errors.Is(err, domain.ErrNotRunning) {
		t.Errorf("BeginStop() when stopped = %v, want ErrNotRunning", err)
	}
}

func TestRunGuard_WaitWithTimeout(t *testing.T) {
	g := NewRunGuard(mockLogger{})

	release := make(chan struct{})
	g.Go(func() { <-release })

	if err := g.WaitWithTimeout(20 * time.Millisecond); !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() = %v, want ErrShutdownTimeout", err)
	}

	close(release)
	if err := g.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() after release = %v", err)
	}
}
