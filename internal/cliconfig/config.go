package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/enginewatch/internal/domain"
	"github.com/bft-labs/enginewatch/internal/update"
)

// Config holds CLI configuration for enginewatch.
type Config struct {
	Host       string
	DaemonName string

	RetryInterval       time.Duration
	HealthCheckInterval time.Duration
	UpdateCheckInterval time.Duration
	ConnectionTimeout   time.Duration
	UpdateCheckTimeout  time.Duration
	MaxRetries          int
	BackoffBase         time.Duration
	BackoffCapExponent  int
	FastRetryDelay      time.Duration
	StartupDelay        time.Duration

	EngineTagsURL         string
	CompanionUpdateURL    string
	CompanionInstallerURL string
	HTTPTimeout           time.Duration
	UserAgent             string
	NoUpdateCheck         bool

	WatchSocket bool
	StateDir    string
	StatusFile  string
	LockFile    string
	LogLevel    string
	Once        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	m := domain.DefaultMonitoringConfig()
	ep := update.DefaultEndpoints()
	return Config{
		DaemonName:            m.DaemonName,
		RetryInterval:         m.RetryInterval,
		HealthCheckInterval:   m.HealthCheckInterval,
		UpdateCheckInterval:   m.UpdateCheckInterval,
		ConnectionTimeout:     m.ConnectionTimeout,
		UpdateCheckTimeout:    m.UpdateCheckTimeout,
		MaxRetries:            int(m.MaxRetries),
		BackoffBase:           m.BackoffBase,
		BackoffCapExponent:    int(m.BackoffCapExponent),
		FastRetryDelay:        m.FastRetryDelay,
		StartupDelay:          m.StartupDelay,
		EngineTagsURL:         ep.EngineTagsURL,
		CompanionUpdateURL:    ep.CompanionUpdateURL,
		CompanionInstallerURL: ep.CompanionInstallerURL,
		HTTPTimeout:           10 * time.Second,
		UserAgent:             "enginewatch/1.0",
		WatchSocket:           true,
		StateDir:              "", // Derived from the home directory during Validate
		LogLevel:              "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("state-dir is required (home directory unavailable: %w)", err)
		}
		c.StateDir = filepath.Join(h, ".enginewatch")
	}
	if c.StatusFile == "" {
		c.StatusFile = filepath.Join(c.StateDir, "status.json")
	}
	if c.LockFile == "" {
		c.LockFile = filepath.Join(c.StateDir, "enginewatch.lock")
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative")
	}
	if c.BackoffCapExponent < 0 {
		return fmt.Errorf("backoff-cap must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return c.Monitoring().Validate()
}

// Monitoring returns the supervisor tuning part of the configuration.
func (c Config) Monitoring() domain.MonitoringConfig {
	return domain.MonitoringConfig{
		RetryInterval:       c.RetryInterval,
		HealthCheckInterval: c.HealthCheckInterval,
		UpdateCheckInterval: c.UpdateCheckInterval,
		ConnectionTimeout:   c.ConnectionTimeout,
		UpdateCheckTimeout:  c.UpdateCheckTimeout,
		MaxRetries:          uint32(c.MaxRetries),
		BackoffBase:         c.BackoffBase,
		BackoffCapExponent:  uint32(c.BackoffCapExponent),
		FastRetryDelay:      c.FastRetryDelay,
		StartupDelay:        c.StartupDelay,
		DaemonName:          c.DaemonName,
	}
}

// Endpoints returns the update source URLs.
func (c Config) Endpoints() update.Endpoints {
	return update.Endpoints{
		EngineTagsURL:         c.EngineTagsURL,
		CompanionUpdateURL:    c.CompanionUpdateURL,
		CompanionInstallerURL: c.CompanionInstallerURL,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if non-negative and flag not changed.
// Zero is meaningful for retry tuning, so file values use pointers.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || *value < 0 || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
