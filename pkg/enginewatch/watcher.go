package enginewatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/enginewatch/internal/adapters/companion"
	"github.com/bft-labs/enginewatch/internal/adapters/docker"
	httpAdapter "github.com/bft-labs/enginewatch/internal/adapters/http"
	logAdapter "github.com/bft-labs/enginewatch/internal/adapters/log"
	"github.com/bft-labs/enginewatch/internal/app"
	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/ports"
	"github.com/bft-labs/enginewatch/internal/update"
)

// Snapshot is the latest known status of the engine.
type Snapshot = domain.StatusSnapshot

// EngineVersion holds the version facts reported by the engine.
type EngineVersion = domain.EngineVersion

// Subscription receives published snapshots on C until closed.
type Subscription = app.Subscription

// Watcher supervises the engine connection and publishes its status.
// Use New() to create an instance, then Start() to begin monitoring.
// A Watcher cannot be restarted after Stop.
type Watcher struct {
	config     Config
	opts       options
	guard      *app.RunGuard
	store      *app.Store
	bcast      *app.Broadcaster
	supervisor *app.Supervisor
	logger     ports.Logger

	plugins []Plugin

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// New creates a Watcher with the given configuration.
// The instance is created in RunStopped; call Start() to begin monitoring.
// Returns an error if configuration is invalid or the update client cannot
// be built.
func New(cfg Config, opts ...Option) (*Watcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}

	daemonClient := o.daemonClient
	if daemonClient == nil {
		daemonClient = docker.NewClient(cfg.Host)
	}

	probe := o.companion
	if probe == nil {
		probe = companion.New()
	}

	var checker app.UpdateChecker
	if !cfg.DisableUpdateCheck {
		client := o.httpClient
		if client == nil {
			c, err := httpAdapter.NewUpdateClient(cfg.HTTPTimeout, cfg.UserAgent)
			if err != nil {
				return nil, fmt.Errorf("update client: %w", err)
			}
			client = c
		}
		checker = update.NewChecker(client, cfg.Endpoints)
	}

	bcast := app.NewBroadcaster(o.subscriberBuffer)
	store := app.NewStore(bcast)

	var observer app.ConnStateObserver
	if o.eventHandler != nil {
		observer = &eventEmitterWrapper{handler: o.eventHandler}
	}

	sup := app.NewSupervisor(cfg.Monitoring, daemonClient, probe, checker, store, logger, observer)

	return &Watcher{
		config:     cfg,
		opts:       o,
		guard:      app.NewRunGuard(logger),
		store:      store,
		bcast:      bcast,
		supervisor: sup,
		logger:     logger,
		plugins:    o.plugins,
	}, nil
}

// Start begins monitoring in the background and returns immediately.
// Returns an error if already running, if the Watcher was stopped, or if a
// plugin fails to initialize.
// The provided context is used for the lifetime of the monitoring.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return domain.ErrStopped
	}
	if err := w.guard.BeginStart(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)

	pluginCfg := PluginConfig{
		Host:       w.config.Host,
		DaemonName: w.config.Monitoring.DaemonName,
		Logger:     w.logger,
		Watcher:    w,
	}
	for i, p := range w.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			w.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			cancel()
			w.shutdownPlugins(w.plugins[:i])
			_ = w.guard.AbortStart()
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		w.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	w.cancel = cancel
	w.guard.Go(func() {
		w.supervisor.Run(runCtx)
		w.supervisor.Wait()
	})

	return w.guard.Started()
}

// Stop shuts the Watcher down and closes every subscription.
// Returns nil on graceful shutdown, ErrShutdownTimeout if background work
// did not finish in time.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.guard.BeginStop(); err != nil {
		return err
	}
	if w.cancel != nil {
		w.cancel()
	}

	err := w.guard.WaitWithTimeout(w.opts.shutdownTimeout)

	w.shutdownPlugins(w.plugins)
	w.bcast.Close()
	w.stopped = true

	_ = w.guard.Stopped()
	return err
}

func (w *Watcher) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			w.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			continue
		}
		w.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
}

// Status returns the Watcher lifecycle state.
func (w *Watcher) Status() RunState {
	return w.guard.State()
}

// ConnState returns the current connection state.
func (w *Watcher) ConnState() ConnState {
	return w.supervisor.State()
}

// Snapshot returns a copy of the current status.
// Safe to call concurrently from any goroutine.
func (w *Watcher) Snapshot() Snapshot {
	return w.store.Read()
}

// Subscribe registers for future snapshots. Call Close when done.
func (w *Watcher) Subscribe() *Subscription {
	return w.bcast.Subscribe()
}

// EngineVersion returns the engine version from the latest snapshot.
// Returns ErrVersionUnavailable while the engine has not been reached.
func (w *Watcher) EngineVersion() (EngineVersion, error) {
	snap := w.store.Read()
	if snap.EngineVersion == nil {
		return EngineVersion{}, domain.ErrVersionUnavailable
	}
	return *snap.EngineVersion, nil
}

// Reconnect asks for an immediate connection attempt if disconnected.
func (w *Watcher) Reconnect() {
	w.supervisor.Reconnect()
}

// RequestUpdateCheck asks for an update check now, ignoring the rate limit.
func (w *Watcher) RequestUpdateCheck() {
	w.supervisor.RequestUpdateCheck()
}
