package app

import (
	"sync"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// ShutdownTimeout is the default maximum time to wait for the supervisor and
// its helpers to exit.
const ShutdownTimeout = 10 * time.Second

// RunState is the lifecycle of a watcher instance, independent of whether
// the engine itself is reachable.
type RunState int

const (
	RunStopped RunState = iota
	RunStarting
	RunRunning
	RunStopping
)

// String returns a human-readable representation of the state.
func (s RunState) String() string {
	switch s {
	case RunStopped:
		return "Stopped"
	case RunStarting:
		return "Starting"
	case RunRunning:
		return "Running"
	case RunStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// RunGuard serializes Start and Stop of a watcher and tracks its workers.
type RunGuard struct {
	mu     sync.Mutex
	state  RunState
	wg     sync.WaitGroup
	logger ports.Logger
}

// NewRunGuard creates a guard in RunStopped.
func NewRunGuard(logger ports.Logger) *RunGuard {
	return &RunGuard{logger: logger}
}

// State returns the current run state.
func (g *RunGuard) State() RunState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// BeginStart moves Stopped to Starting.
func (g *RunGuard) BeginStart() error {
	return g.move(RunStopped, RunStarting, domain.ErrAlreadyRunning)
}

// Started moves Starting to Running.
func (g *RunGuard) Started() error {
	return g.move(RunStarting, RunRunning, domain.ErrNotRunning)
}

// AbortStart returns a failed start to Stopped.
func (g *RunGuard) AbortStart() error {
	return g.move(RunStarting, RunStopped, domain.ErrNotRunning)
}

// BeginStop moves Running to Stopping.
func (g *RunGuard) BeginStop() error {
	return g.move(RunRunning, RunStopping, domain.ErrNotRunning)
}

// Stopped moves Stopping to Stopped.
func (g *RunGuard) Stopped() error {
	return g.move(RunStopping, RunStopped, domain.ErrNotRunning)
}

func (g *RunGuard) move(from, to RunState, wrong error) error {
	g.mu.Lock()
	if g.state != from {
		g.mu.Unlock()
		return wrong
	}
	g.state = to
	g.mu.Unlock()

	g.logger.Debug("watcher state",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
	)
	return nil
}

// Go runs fn as a tracked worker.
func (g *RunGuard) Go(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// WaitWithTimeout waits for all workers to finish.
// Returns domain.ErrShutdownTimeout if the timeout expires first.
func (g *RunGuard) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-done:
		return nil
	case <-t.C:
		g.logger.Warn("shutdown timeout, abandoning workers",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
