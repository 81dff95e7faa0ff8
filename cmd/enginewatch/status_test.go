package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/enginewatch/internal/domain"
)

func healthySnapshot() domain.StatusSnapshot {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	s := domain.InitialSnapshot()
	s.MarkHealthy(now)
	s.EngineVersion = &domain.EngineVersion{Version: "27.3.1", APIVersion: "1.47"}
	s.CompanionVersion = domain.Ptr("4.34.3")
	s.ResourceCount = domain.Ptr(int32(7))
	s.EngineUpdateAvailable = domain.Ptr(true)
	s.CompanionUpdateAvailable = domain.Ptr(false)
	return s
}

func TestRenderStatus_Healthy(t *testing.T) {
	out := renderStatus(healthySnapshot())

	for _, want := range []string{"running", "27.3.1 (API 1.47)", "4.34.3", "7", "available", "up to date"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Status")
}

func TestRenderStatus_Unreachable(t *testing.T) {
	s := domain.InitialSnapshot()
	s.MarkUnreachable("Docker is not running", time.Now())

	out := renderStatus(s)
	assert.Contains(t, out, "not running")
	assert.Contains(t, out, "Docker is not running")
	assert.Contains(t, out, "not installed")
	assert.Contains(t, out, "unknown")
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "unknown", yesNo(nil))
	assert.Equal(t, "available", yesNo(domain.Ptr(true)))
	assert.Equal(t, "up to date", yesNo(domain.Ptr(false)))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, healthySnapshot()))

	out := buf.String()
	assert.Contains(t, out, `"is_running": true`)
	assert.Contains(t, out, `"resource_count": 7`)
	assert.Contains(t, out, `"error": null`)
}

func TestAcquireLock_SingleInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "enginewatch.lock")

	first, err := acquireLock(path)
	require.NoError(t, err)

	_, err = acquireLock(path)
	require.Error(t, err)

	require.NoError(t, first.Unlock())

	again, err := acquireLock(path)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}
