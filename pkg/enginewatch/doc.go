// Package enginewatch provides an embeddable supervisor for the local Docker
// Engine.
//
// A Watcher keeps a continuously updated [Snapshot] of the engine: whether it
// answers, which versions are installed, how many containers it manages, and
// whether newer releases of the engine and of Docker Desktop exist. Every
// change is broadcast to subscribers.
//
// # Basic Usage
//
//	w, err := enginewatch.New(enginewatch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sub := w.Subscribe()
//	defer sub.Close()
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
//	for snap := range sub.C {
//	    fmt.Println(snap.IsRunning, snap.ErrorText())
//	}
//
// # Subscriptions
//
// Subscribers receive snapshots published after they subscribed; there is no
// replay. A subscriber that falls behind loses the oldest queued snapshots and
// [Subscription.Dropped] grows. Call [Watcher.Snapshot] to read the current
// value at any time.
//
// # Connection States
//
// The supervisor moves through [StateDisconnected], [StateConnecting],
// [StateConnected] and [StateReconnecting]. Use [WithEventHandler] to observe
// transitions.
//
// # Plugins
//
// Optional behavior is packaged as plugins:
//
//	import "github.com/bft-labs/enginewatch/plugins/socketwatch"
//	import "github.com/bft-labs/enginewatch/plugins/statusfile"
//
//	w, err := enginewatch.New(cfg,
//	    socketwatch.WithSocketWatch(socketwatch.DefaultConfig()),
//	    statusfile.WithStatusFile(statusfile.Config{Path: "/tmp/engine.json"}),
//	)
package enginewatch
