package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/enginewatch/internal/ports"
)

func TestZerologLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(zerolog.New(&buf))

	l.Warn("connection attempt failed",
		ports.String("kind", "NotRunning"),
		ports.Uint64("retries", 3),
		ports.Bool("fast", true),
		ports.Duration("delay", 500*time.Millisecond),
		ports.Err(errors.New("refused")),
		ports.Any("engine_update", (*bool)(nil)),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	want := map[string]any{
		"level":   "warn",
		"message": "connection attempt failed",
		"kind":    "NotRunning",
		"retries": float64(3),
		"fast":    true,
		"error":   "refused",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if v, ok := got["engine_update"]; !ok || v != nil {
		t.Errorf("engine_update = %v (present %v), want null", v, ok)
	}
}

func TestZerologLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at info level: %s", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("info not written")
	}
}
