package domain

import (
	"fmt"
	"time"
)

// MonitoringConfig is the timing and retry policy of the connection supervisor.
// It is immutable once the supervisor is constructed.
type MonitoringConfig struct {
	// RetryInterval is how often a reconnect is attempted while disconnected.
	RetryInterval time.Duration

	// HealthCheckInterval is how often a connected engine is pinged.
	HealthCheckInterval time.Duration

	// UpdateCheckInterval is the minimum spacing between update checks.
	UpdateCheckInterval time.Duration

	// ConnectionTimeout bounds every individual engine call.
	ConnectionTimeout time.Duration

	// UpdateCheckTimeout bounds each update lookup. Update sources are remote
	// and slower than the local socket.
	UpdateCheckTimeout time.Duration

	// MaxRetries is the number of consecutive failures after which the
	// supervisor stops growing its delay and switches to FastRetryDelay.
	MaxRetries uint32

	// BackoffBase is the delay unit of the exponential backoff.
	BackoffBase time.Duration

	// BackoffCapExponent bounds the backoff exponent.
	BackoffCapExponent uint32

	// FastRetryDelay is used once MaxRetries is reached, so a restarting
	// engine is noticed quickly.
	FastRetryDelay time.Duration

	// StartupDelay holds off the periodic timers after the first attempt.
	StartupDelay time.Duration

	// DaemonName is used in human-readable status messages.
	DaemonName string
}

// DefaultMonitoringConfig returns the tuning used by the desktop agent.
func DefaultMonitoringConfig() MonitoringConfig {
	return MonitoringConfig{
		RetryInterval:       1 * time.Second,
		HealthCheckInterval: 30 * time.Second,
		UpdateCheckInterval: time.Hour,
		ConnectionTimeout:   5 * time.Second,
		UpdateCheckTimeout:  15 * time.Second,
		MaxRetries:          3,
		BackoffBase:         500 * time.Millisecond,
		BackoffCapExponent:  3,
		FastRetryDelay:      500 * time.Millisecond,
		StartupDelay:        2 * time.Second,
		DaemonName:          "Docker",
	}
}

// Validate checks that every interval is usable by a ticker.
func (c MonitoringConfig) Validate() error {
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"retry interval", c.RetryInterval},
		{"health check interval", c.HealthCheckInterval},
		{"update check interval", c.UpdateCheckInterval},
		{"connection timeout", c.ConnectionTimeout},
		{"update check timeout", c.UpdateCheckTimeout},
		{"backoff base", c.BackoffBase},
		{"fast retry delay", c.FastRetryDelay},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, p.name)
		}
	}
	if c.StartupDelay < 0 {
		return fmt.Errorf("%w: startup delay must not be negative", ErrInvalidConfig)
	}
	if c.BackoffCapExponent > 16 {
		return fmt.Errorf("%w: backoff cap exponent %d is too large", ErrInvalidConfig, c.BackoffCapExponent)
	}
	if c.DaemonName == "" {
		return fmt.Errorf("%w: daemon name is required", ErrInvalidConfig)
	}
	return nil
}
