package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestConnectError_Message(t *testing.T) {
	tests := []struct {
		kind ConnectErrorKind
		want string
	}{
		{KindNotRunning, "Docker is not running"},
		{KindStartingUp, "Docker is starting up"},
		{KindTimeout, "Docker connection timeout"},
		{KindConnectionLost, "Docker connection lost"},
		{KindRestarting, "Docker is restarting"},
		{KindConnectionFailed, "Docker connection failed"},
	}
	for _, tt := range tests {
		err := NewConnectError(tt.kind, "raw detail")
		if got := err.Message("Docker"); got != tt.want {
			t.Errorf("%v.Message() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConnectError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("ping: %w", NewConnectError(KindTimeout, "deadline"))

	if !errors.Is(err, ErrEngineTimeout) {
		t.Error("errors.Is should match the timeout sentinel")
	}
	if errors.Is(err, ErrConnectionLost) {
		t.Error("errors.Is matched a different kind")
	}

	var ce *ConnectError
	if !errors.As(err, &ce) || ce.Detail != "deadline" {
		t.Errorf("errors.As = %v", ce)
	}
}

func TestMonitoringConfig_Validate(t *testing.T) {
	if err := DefaultMonitoringConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*MonitoringConfig)
	}{
		{"zero retry interval", func(c *MonitoringConfig) { c.RetryInterval = 0 }},
		{"negative health interval", func(c *MonitoringConfig) { c.HealthCheckInterval = -1 }},
		{"zero connection timeout", func(c *MonitoringConfig) { c.ConnectionTimeout = 0 }},
		{"negative startup delay", func(c *MonitoringConfig) { c.StartupDelay = -1 }},
		{"huge exponent", func(c *MonitoringConfig) { c.BackoffCapExponent = 40 }},
		{"no daemon name", func(c *MonitoringConfig) { c.DaemonName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMonitoringConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
