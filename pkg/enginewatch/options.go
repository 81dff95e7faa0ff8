package enginewatch

import (
	"time"

	"github.com/bft-labs/enginewatch/internal/app"
	"github.com/bft-labs/enginewatch/internal/ports"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// DaemonClient opens connections to the engine. Replace it to monitor
// something other than the local Docker Engine, or in tests.
type DaemonClient = ports.DaemonClient

// DaemonConn is an open engine connection.
type DaemonConn = ports.DaemonConn

// DaemonEvent is a single engine event.
type DaemonEvent = ports.DaemonEvent

// EventStream carries engine events.
type EventStream = ports.EventStream

// CompanionProbe looks up the installed Docker Desktop version.
type CompanionProbe = ports.CompanionProbe

// Option configures optional behavior of a Watcher.
type Option func(*options)

// options holds the optional configuration for a Watcher instance.
type options struct {
	httpClient       ports.HTTPClient
	logger           ports.Logger
	daemonClient     ports.DaemonClient
	companion        ports.CompanionProbe
	eventHandler     EventHandler
	plugins          []Plugin
	subscriberBuffer int
	shutdownTimeout  time.Duration
}

// defaultOptions returns options with sensible defaults. Adapters left nil
// are built from the Config in New.
func defaultOptions() options {
	return options{
		subscriberBuffer: app.DefaultSubscriberBuffer,
		shutdownTimeout:  app.ShutdownTimeout,
	}
}

// WithHTTPClient sets the client used for update lookups.
// If not provided, an HTTP/2-capable client with the configured timeout and
// user agent is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDaemonClient replaces the Docker Engine client.
func WithDaemonClient(client DaemonClient) Option {
	return func(o *options) {
		o.daemonClient = client
	}
}

// WithCompanionProbe replaces the platform Docker Desktop probe.
func WithCompanionProbe(probe CompanionProbe) Option {
	return func(o *options) {
		o.companion = probe
	}
}

// WithEventHandler sets a handler for connection state changes.
// Handlers are called synchronously from the supervisor and should return
// quickly.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the Watcher starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithSubscriberBuffer sets how many snapshots each subscriber may queue.
func WithSubscriberBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.subscriberBuffer = n
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for background work.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}
