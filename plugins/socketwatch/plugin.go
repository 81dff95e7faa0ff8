// Package socketwatch reconnects to the engine as soon as its control socket
// appears, instead of waiting for the next retry tick.
package socketwatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/enginewatch/pkg/enginewatch"
)

// DefaultSocketPath is where the engine listens when no host is configured.
const DefaultSocketPath = "/var/run/docker.sock"

// Plugin watches the directory holding the engine socket.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration
	socketPath    string

	logger   enginewatch.Logger
	ctrl     enginewatch.Controller
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the socket watcher plugin.
type Config struct {
	// SocketPath overrides the socket derived from the engine host.
	SocketPath string

	// DebounceDelay is how long to wait after the socket appears before
	// reconnecting. The engine creates the socket slightly before it accepts
	// connections.
	// Default: 250 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 250 * time.Millisecond,
	}
}

// New creates a socket watcher plugin.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 250 * time.Millisecond
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
		socketPath:    cfg.SocketPath,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "socketwatch"
}

// Initialize resolves the socket path and starts watching its directory.
// A host that is not a unix socket disables the plugin.
func (p *Plugin) Initialize(ctx context.Context, cfg enginewatch.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.ctrl = cfg.Watcher
	if p.socketPath == "" {
		p.socketPath = socketPath(cfg.Host, os.Getenv("DOCKER_HOST"))
	}
	path := p.socketPath
	p.mu.Unlock()

	if path == "" {
		p.logger.Info("Socket watcher disabled: engine host is not a unix socket")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		p.logger.Warn("Socket watcher disabled: cannot watch socket directory",
			enginewatch.LogField{Key: "path", Value: filepath.Dir(path)},
			enginewatch.LogField{Key: "error", Value: err})
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("Socket watcher plugin initialized",
		enginewatch.LogField{Key: "socket", Value: path})

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher, path)

	return nil
}

// Shutdown stops the watcher and any pending reconnect.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				p.logger.Debug("Socket watcher: socket created")
				p.debounceReconnect(ctx)
			case event.Has(fsnotify.Remove):
				p.logger.Debug("Socket watcher: socket removed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("Socket watcher: watcher error",
				enginewatch.LogField{Key: "error", Value: err})
		}
	}
}

func (p *Plugin) debounceReconnect(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.ctrl.Reconnect()
	})
}

// socketPath derives the socket file from the configured host, falling back
// to DOCKER_HOST and then the default socket. It returns "" for hosts that
// are not unix sockets.
func socketPath(host, envHost string) string {
	if host == "" {
		host = envHost
	}
	if host == "" {
		return DefaultSocketPath
	}
	if rest, ok := strings.CutPrefix(host, "unix://"); ok {
		return rest
	}
	return ""
}

var _ enginewatch.Plugin = (*Plugin)(nil)
