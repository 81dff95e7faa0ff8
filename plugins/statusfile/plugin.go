// Package statusfile persists every published snapshot to a JSON file so
// other processes, such as `enginewatch status`, can read the latest status.
package statusfile

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/enginewatch/internal/adapters/fs"
	"github.com/bft-labs/enginewatch/internal/ports"
	"github.com/bft-labs/enginewatch/pkg/enginewatch"
)

// Config holds configuration options for the status file plugin.
type Config struct {
	// Path is the file to write. Required.
	Path string
}

// Plugin writes the latest snapshot to disk on every change.
type Plugin struct {
	repo   ports.SnapshotRepository
	path   string
	logger enginewatch.Logger

	sub    *enginewatch.Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a status file plugin.
func New(cfg Config) *Plugin {
	return &Plugin{
		repo: fs.NewSnapshotFileRepository(cfg.Path),
		path: cfg.Path,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "statusfile"
}

// Initialize writes the current snapshot and starts following updates.
func (p *Plugin) Initialize(ctx context.Context, cfg enginewatch.PluginConfig) error {
	if p.path == "" {
		return errors.New("statusfile: path is required")
	}
	p.logger = cfg.Logger

	// Subscribe before the initial write so no change falls in between.
	p.sub = cfg.Watcher.Subscribe()
	if err := p.repo.Save(ctx, cfg.Watcher.Snapshot()); err != nil {
		p.sub.Close()
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(loopCtx)

	p.logger.Info("Status file plugin initialized",
		enginewatch.LogField{Key: "path", Value: p.path})
	return nil
}

// Shutdown stops following updates. The file keeps the last snapshot.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	if p.sub != nil {
		p.sub.Close()
	}
	return nil
}

func (p *Plugin) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-p.sub.C:
			if !ok {
				return
			}
			if err := p.repo.Save(ctx, snap); err != nil {
				p.logger.Warn("Status file: write failed",
					enginewatch.LogField{Key: "path", Value: p.path},
					enginewatch.LogField{Key: "error", Value: err})
			}
		}
	}
}

var _ enginewatch.Plugin = (*Plugin)(nil)
