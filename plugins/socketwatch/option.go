package socketwatch

import "github.com/bft-labs/enginewatch/pkg/enginewatch"

// WithSocketWatch returns an Option that reconnects as soon as the engine
// socket is created.
//
// Usage:
//
//	w, err := enginewatch.New(cfg,
//	    socketwatch.WithSocketWatch(socketwatch.Config{
//	        DebounceDelay: 500 * time.Millisecond,
//	    }),
//	)
func WithSocketWatch(cfg Config) enginewatch.Option {
	return enginewatch.WithPlugin(New(cfg))
}

// WithDefaultSocketWatch enables socket watching with default settings.
func WithDefaultSocketWatch() enginewatch.Option {
	return WithSocketWatch(DefaultConfig())
}
