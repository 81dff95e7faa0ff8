package enginewatch

import (
	"fmt"
	"time"

	httpAdapter "github.com/bft-labs/enginewatch/internal/adapters/http"
	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/update"
)

// MonitoringConfig is the timing and retry policy of the supervisor.
type MonitoringConfig = domain.MonitoringConfig

// UpdateEndpoints are the URLs consulted for newer releases.
type UpdateEndpoints = update.Endpoints

// Config configures a Watcher.
type Config struct {
	// Host is the engine address, e.g. unix:///var/run/docker.sock.
	// Empty uses DOCKER_HOST or the platform default.
	Host string

	Monitoring MonitoringConfig
	Endpoints  UpdateEndpoints

	// HTTPTimeout bounds each update request.
	HTTPTimeout time.Duration

	// UserAgent is sent with update requests.
	UserAgent string

	// DisableUpdateCheck turns off all update lookups.
	DisableUpdateCheck bool
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{
		Monitoring:  domain.DefaultMonitoringConfig(),
		Endpoints:   update.DefaultEndpoints(),
		HTTPTimeout: httpAdapter.DefaultTimeout,
		UserAgent:   httpAdapter.DefaultUserAgent,
	}
}

// SetDefaults fills zero fields. A zero Monitoring is replaced as a whole;
// otherwise only its zero intervals and name are filled, so an explicit zero
// MaxRetries is kept.
func (c *Config) SetDefaults() {
	def := DefaultConfig()

	if c.Monitoring == (MonitoringConfig{}) {
		c.Monitoring = def.Monitoring
	} else {
		m, d := &c.Monitoring, def.Monitoring
		fill := func(dst *time.Duration, v time.Duration) {
			if *dst == 0 {
				*dst = v
			}
		}
		fill(&m.RetryInterval, d.RetryInterval)
		fill(&m.HealthCheckInterval, d.HealthCheckInterval)
		fill(&m.UpdateCheckInterval, d.UpdateCheckInterval)
		fill(&m.ConnectionTimeout, d.ConnectionTimeout)
		fill(&m.UpdateCheckTimeout, d.UpdateCheckTimeout)
		fill(&m.BackoffBase, d.BackoffBase)
		fill(&m.FastRetryDelay, d.FastRetryDelay)
		if m.DaemonName == "" {
			m.DaemonName = d.DaemonName
		}
	}
	if c.Endpoints == (UpdateEndpoints{}) {
		c.Endpoints = def.Endpoints
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = def.HTTPTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Monitoring.Validate(); err != nil {
		return err
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http timeout must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
