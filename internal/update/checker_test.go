package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestFirstOf_ReturnsFirstDeterminateResult(t *testing.T) {
	var calls []string
	unknown := StrategyFunc(func(ctx context.Context, current string) *bool {
		calls = append(calls, "unknown")
		return nil
	})
	yes := StrategyFunc(func(ctx context.Context, current string) *bool {
		calls = append(calls, "yes")
		return boolPtr(true)
	})
	never := StrategyFunc(func(ctx context.Context, current string) *bool {
		calls = append(calls, "never")
		return boolPtr(false)
	})

	got := FirstOf(unknown, yes, never).Check(context.Background(), "1.0.0")

	require.NotNil(t, got)
	assert.True(t, *got)
	assert.Equal(t, []string{"unknown", "yes"}, calls)
}

func TestFirstOf_AllUnknown(t *testing.T) {
	unknown := StrategyFunc(func(ctx context.Context, current string) *bool { return nil })
	assert.Nil(t, FirstOf(unknown, unknown).Check(context.Background(), "1.0.0"))
	assert.Nil(t, FirstOf().Check(context.Background(), "1.0.0"))
}

func TestFirstOf_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	s := StrategyFunc(func(ctx context.Context, current string) *bool {
		called = true
		return boolPtr(true)
	})
	assert.Nil(t, FirstOf(s).Check(ctx, "1.0.0"))
	assert.False(t, called)
}

func TestChecker_Engine(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    *bool
	}{
		{"newer tag", http.StatusOK, `{"results":[{"name":"27.4.0"}]}`, "27.3.1", boolPtr(true)},
		{"same tag", http.StatusOK, `{"results":[{"name":"27.3.1"}]}`, "27.3.1", boolPtr(false)},
		{"non numeric tag", http.StatusOK, `{"results":[{"name":"stable"}]}`, "27.3.1", boolPtr(false)},
		{"empty results", http.StatusOK, `{"results":[]}`, "27.3.1", nil},
		{"name not a string", http.StatusOK, `{"results":[{"name":27}]}`, "27.3.1", nil},
		{"malformed payload", http.StatusOK, `{"results":[`, "27.3.1", nil},
		{"server error", http.StatusInternalServerError, `{}`, "27.3.1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewChecker(srv.Client(), Endpoints{EngineTagsURL: srv.URL})
			got := c.CheckEngine(context.Background(), tt.current)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestChecker_CompanionFallsBackToInstallerHeader(t *testing.T) {
	var headCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/updates", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/installer.exe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("installer probe used %s, want HEAD", r.Method)
		}
		headCalls.Add(1)
		w.Header().Set("X-Version", "4.43.0")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewChecker(srv.Client(), Endpoints{
		CompanionUpdateURL:    srv.URL + "/api/updates",
		CompanionInstallerURL: srv.URL + "/installer.exe",
	})
	got := c.CheckCompanion(context.Background(), "4.42.1")

	require.NotNil(t, got)
	assert.True(t, *got)
	assert.Equal(t, int32(1), headCalls.Load())
}

func TestChecker_CompanionPrimaryWins(t *testing.T) {
	var headCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/updates", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"4.42.1.0"}`))
	})
	mux.HandleFunc("/installer.exe", func(w http.ResponseWriter, r *http.Request) {
		headCalls.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewChecker(srv.Client(), Endpoints{
		CompanionUpdateURL:    srv.URL + "/api/updates",
		CompanionInstallerURL: srv.URL + "/installer.exe",
	})
	got := c.CheckCompanion(context.Background(), "4.42.1")

	require.NotNil(t, got)
	assert.False(t, *got)
	assert.Zero(t, headCalls.Load())
}

func TestChecker_CompanionMissingHeaderIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
	}))
	defer srv.Close()

	c := NewChecker(srv.Client(), Endpoints{CompanionInstallerURL: srv.URL})
	assert.Nil(t, c.CheckCompanion(context.Background(), "4.42.1"))
}

type failingClient struct{}

func (failingClient) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: no route to host")
}

func TestChecker_TransportFailureIsUnknown(t *testing.T) {
	c := NewChecker(failingClient{}, DefaultEndpoints())
	assert.Nil(t, c.CheckEngine(context.Background(), "27.3.1"))
	assert.Nil(t, c.CheckCompanion(context.Background(), "4.42.1"))
}

func TestChecker_EmptyVersionSkipsLookup(t *testing.T) {
	var nilChecker *Checker
	assert.Nil(t, nilChecker.CheckEngine(context.Background(), "1.0.0"))

	c := NewChecker(failingClient{}, Endpoints{})
	assert.Nil(t, c.CheckEngine(context.Background(), ""))
	assert.Nil(t, c.CheckCompanion(context.Background(), "4.42.1"))
}
