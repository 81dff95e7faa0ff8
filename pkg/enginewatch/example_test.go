package enginewatch_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/enginewatch/pkg/enginewatch"
)

// ExampleNew demonstrates how to embed enginewatch in your application.
func ExampleNew() {
	cfg := enginewatch.DefaultConfig()
	cfg.DisableUpdateCheck = true

	w, err := enginewatch.New(cfg, enginewatch.WithDaemonClient(&stubDaemon{}))
	if err != nil {
		fmt.Printf("failed to create watcher: %v\n", err)
		return
	}

	// Start monitoring (non-blocking)
	if err := w.Start(context.Background()); err != nil {
		fmt.Printf("failed to start: %v\n", err)
		return
	}
	fmt.Printf("Running: %v\n", w.Status() == enginewatch.RunRunning)

	_ = w.Stop()

	// Output: Running: true
}

// ExampleWatcher_Subscribe demonstrates following status changes.
func ExampleWatcher_Subscribe() {
	cfg := enginewatch.DefaultConfig()
	cfg.DisableUpdateCheck = true
	cfg.Monitoring.StartupDelay = 0

	w, _ := enginewatch.New(cfg,
		enginewatch.WithDaemonClient(&stubDaemon{up: true}),
		enginewatch.WithCompanionProbe(stubProbe{}))

	sub := w.Subscribe()
	defer sub.Close()

	_ = w.Start(context.Background())
	defer w.Stop()

	select {
	case snap := <-sub.C:
		fmt.Printf("running=%v version=%s\n", snap.IsRunning, snap.EngineVersion.Version)
	case <-time.After(5 * time.Second):
		fmt.Println("timed out")
	}

	// Output: running=true version=27.3.1
}

// Example_withEventHandler demonstrates receiving connection state changes.
func Example_withEventHandler() {
	handler := enginewatch.EventHandlerFunc(func(ev enginewatch.ConnStateEvent) {
		fmt.Printf("%s -> %s (%s)\n", ev.Previous, ev.Current, ev.Reason)
	})

	w, err := enginewatch.New(enginewatch.DefaultConfig(), enginewatch.WithEventHandler(handler))
	if err != nil {
		fmt.Printf("failed to create watcher: %v\n", err)
		return
	}

	_ = w // Start, Stop...
}

// Example_withPlugins demonstrates using optional plugins.
func Example_withPlugins() {
	// Import plugins from:
	//   "github.com/bft-labs/enginewatch/plugins/socketwatch"
	//   "github.com/bft-labs/enginewatch/plugins/statusfile"
	//
	// Then create with plugins:
	//
	//   w, err := enginewatch.New(cfg,
	//       socketwatch.WithSocketWatch(socketwatch.DefaultConfig()),
	//       statusfile.WithStatusFile(statusfile.Config{Path: "/tmp/status.json"}),
	//   )
	//
	// Plugins are initialized on Start() and shutdown on Stop().

	w, err := enginewatch.New(enginewatch.DefaultConfig())
	if err != nil {
		fmt.Printf("failed to create watcher: %v\n", err)
		return
	}

	_ = w
}
