package statusfile

import "github.com/bft-labs/enginewatch/pkg/enginewatch"

// WithStatusFile returns an Option that keeps cfg.Path in sync with the
// latest snapshot.
//
// Usage:
//
//	w, err := enginewatch.New(cfg,
//	    statusfile.WithStatusFile(statusfile.Config{Path: "/tmp/status.json"}),
//	)
func WithStatusFile(cfg Config) enginewatch.Option {
	return enginewatch.WithPlugin(New(cfg))
}
