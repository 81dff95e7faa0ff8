package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/enginewatch/internal/domain"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestLogSnapshot_LevelFollowsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	logSnapshot(log, healthySnapshot())
	m := decodeLine(t, &buf)
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, true, m["running"])
	assert.Equal(t, "27.3.1", m["version"])
	assert.Equal(t, float64(7), m["containers"])
	assert.NotContains(t, m, "status")

	buf.Reset()
	s := domain.InitialSnapshot()
	s.MarkUnreachable("Docker is not running", time.Now())
	logSnapshot(log, s)
	m = decodeLine(t, &buf)
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, false, m["running"])
	assert.Equal(t, "Docker is not running", m["status"])
}

func TestLogSnapshot_FilteredLevelWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.ErrorLevel)

	logSnapshot(log, healthySnapshot())
	s := domain.InitialSnapshot()
	s.MarkUnreachable("Docker is not running", time.Now())
	logSnapshot(log, s)

	assert.Zero(t, buf.Len())
}
