package cliconfig

import (
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Host                  string `toml:"host"`
	DaemonName            string `toml:"daemon_name"`
	RetryInterval         string `toml:"retry_interval"`
	HealthCheckInterval   string `toml:"health_check_interval"`
	UpdateCheckInterval   string `toml:"update_check_interval"`
	ConnectionTimeout     string `toml:"connection_timeout"`
	UpdateCheckTimeout    string `toml:"update_check_timeout"`
	MaxRetries            *int   `toml:"max_retries"`
	BackoffBase           string `toml:"backoff_base"`
	BackoffCapExponent    *int   `toml:"backoff_cap_exponent"`
	FastRetryDelay        string `toml:"fast_retry_delay"`
	StartupDelay          string `toml:"startup_delay"`
	EngineTagsURL         string `toml:"engine_tags_url"`
	CompanionUpdateURL    string `toml:"companion_update_url"`
	CompanionInstallerURL string `toml:"companion_installer_url"`
	HTTPTimeout           string `toml:"http_timeout"`
	UserAgent             string `toml:"user_agent"`
	NoUpdateCheck         *bool  `toml:"no_update_check"`
	WatchSocket           *bool  `toml:"watch_socket"`
	StateDir              string `toml:"state_dir"`
	StatusFile            string `toml:"status_file"`
	LogLevel              string `toml:"log_level"`
	Once                  *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.enginewatch/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".enginewatch", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setString("daemon-name", fc.DaemonName, &cfg.DaemonName)
	s.setString("engine-tags-url", fc.EngineTagsURL, &cfg.EngineTagsURL)
	s.setString("companion-update-url", fc.CompanionUpdateURL, &cfg.CompanionUpdateURL)
	s.setString("companion-installer-url", fc.CompanionInstallerURL, &cfg.CompanionInstallerURL)
	s.setString("user-agent", fc.UserAgent, &cfg.UserAgent)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("status-file", fc.StatusFile, &cfg.StatusFile)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"retry-interval", fc.RetryInterval, &cfg.RetryInterval},
		{"health-interval", fc.HealthCheckInterval, &cfg.HealthCheckInterval},
		{"update-interval", fc.UpdateCheckInterval, &cfg.UpdateCheckInterval},
		{"connect-timeout", fc.ConnectionTimeout, &cfg.ConnectionTimeout},
		{"update-timeout", fc.UpdateCheckTimeout, &cfg.UpdateCheckTimeout},
		{"backoff-base", fc.BackoffBase, &cfg.BackoffBase},
		{"fast-retry", fc.FastRetryDelay, &cfg.FastRetryDelay},
		{"startup-delay", fc.StartupDelay, &cfg.StartupDelay},
		{"timeout", fc.HTTPTimeout, &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setInt("max-retries", fc.MaxRetries, &cfg.MaxRetries)
	s.setInt("backoff-cap", fc.BackoffCapExponent, &cfg.BackoffCapExponent)

	s.setBool("no-update-check", fc.NoUpdateCheck, &cfg.NoUpdateCheck)
	s.setBool("watch-socket", fc.WatchSocket, &cfg.WatchSocket)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
