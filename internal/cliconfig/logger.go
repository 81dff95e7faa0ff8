package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns the console logger used by the CLI before configuration is
// loaded. Use WithLevel once the log level is known.
func Logger() zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// WithLevel returns l filtered at the named level. Unknown names keep l as is.
func WithLevel(l zerolog.Logger, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return l
	}
	return l.Level(lvl)
}
