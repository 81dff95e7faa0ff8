package enginewatch

import "context"

// Plugin extends a Watcher with optional behavior.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called by Start. ctx is canceled when the Watcher stops.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called by Stop, in reverse registration order.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets to work with.
type PluginConfig struct {
	// Host is the configured engine address, possibly empty.
	Host string

	// DaemonName is used in human-readable messages.
	DaemonName string

	Logger Logger

	// Watcher gives access to snapshots and manual triggers.
	Watcher Controller
}

// Controller is the part of a Watcher that plugins may use.
type Controller interface {
	Snapshot() Snapshot
	Subscribe() *Subscription
	Reconnect()
	RequestUpdateCheck()
}
