package cliconfig

import (
	"os"
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ENGINEWATCH_"

// ApplyEnvConfig applies ENGINEWATCH_* environment variables to cfg.
// Environment values override the config file but never an explicitly set flag.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	s.setString("host", env("HOST"), &cfg.Host)
	s.setString("daemon-name", env("DAEMON_NAME"), &cfg.DaemonName)
	s.setString("engine-tags-url", env("ENGINE_TAGS_URL"), &cfg.EngineTagsURL)
	s.setString("companion-update-url", env("COMPANION_UPDATE_URL"), &cfg.CompanionUpdateURL)
	s.setString("companion-installer-url", env("COMPANION_INSTALLER_URL"), &cfg.CompanionInstallerURL)
	s.setString("user-agent", env("USER_AGENT"), &cfg.UserAgent)
	s.setString("state-dir", env("STATE_DIR"), &cfg.StateDir)
	s.setString("status-file", env("STATUS_FILE"), &cfg.StatusFile)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	durations := []struct {
		flag string
		name string
		dst  *time.Duration
	}{
		{"retry-interval", "RETRY_INTERVAL", &cfg.RetryInterval},
		{"health-interval", "HEALTH_CHECK_INTERVAL", &cfg.HealthCheckInterval},
		{"update-interval", "UPDATE_CHECK_INTERVAL", &cfg.UpdateCheckInterval},
		{"connect-timeout", "CONNECTION_TIMEOUT", &cfg.ConnectionTimeout},
		{"update-timeout", "UPDATE_CHECK_TIMEOUT", &cfg.UpdateCheckTimeout},
		{"backoff-base", "BACKOFF_BASE", &cfg.BackoffBase},
		{"fast-retry", "FAST_RETRY_DELAY", &cfg.FastRetryDelay},
		{"startup-delay", "STARTUP_DELAY", &cfg.StartupDelay},
		{"timeout", "HTTP_TIMEOUT", &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, env(d.name), d.dst); err != nil {
			return err
		}
	}

	if err := s.setIntFromString("max-retries", env("MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}
	if err := s.setIntFromString("backoff-cap", env("BACKOFF_CAP_EXPONENT"), &cfg.BackoffCapExponent); err != nil {
		return err
	}

	s.setBoolFromString("no-update-check", env("NO_UPDATE_CHECK"), &cfg.NoUpdateCheck)
	s.setBoolFromString("watch-socket", env("WATCH_SOCKET"), &cfg.WatchSocket)
	s.setBoolFromString("once", env("ONCE"), &cfg.Once)

	return nil
}
