package update

import (
	"context"
	"io"
	"net/http"

	"github.com/bft-labs/enginewatch/internal/ports"
)

// maxBodyBytes caps how much of an untrusted metadata response is read.
const maxBodyBytes = 1 << 20

// Strategy is one way of finding out whether an update exists.
type Strategy interface {
	// Check returns nil when the answer could not be determined.
	Check(ctx context.Context, current string) *bool
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, current string) *bool

// Check calls f.
func (f StrategyFunc) Check(ctx context.Context, current string) *bool {
	return f(ctx, current)
}

// FirstOf returns a Strategy that tries each strategy in order and returns the
// first determinate result.
func FirstOf(strategies ...Strategy) Strategy {
	return StrategyFunc(func(ctx context.Context, current string) *bool {
		for _, s := range strategies {
			if ctx.Err() != nil {
				return nil
			}
			if r := s.Check(ctx, current); r != nil {
				return r
			}
		}
		return nil
	})
}

// Checker holds the update strategies for both tracked components.
type Checker struct {
	Engine    Strategy
	Companion Strategy
}

// Endpoints lists the metadata sources consulted by NewChecker.
type Endpoints struct {
	EngineTagsURL         string
	CompanionUpdateURL    string
	CompanionInstallerURL string
}

// Default metadata sources.
const (
	DefaultEngineTagsURL         = "https://hub.docker.com/v2/repositories/library/docker/tags/?page_size=1&ordering=last_updated&name=stable"
	DefaultCompanionUpdateURL    = "https://desktop.docker.com/api/updates/win/stable"
	DefaultCompanionInstallerURL = "https://desktop.docker.com/win/stable/Docker%20Desktop%20Installer.exe"
)

// DefaultEndpoints returns the public Docker metadata sources.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		EngineTagsURL:         DefaultEngineTagsURL,
		CompanionUpdateURL:    DefaultCompanionUpdateURL,
		CompanionInstallerURL: DefaultCompanionInstallerURL,
	}
}

// NewChecker wires the standard strategies against the given endpoints.
// Empty URLs disable the corresponding strategy.
func NewChecker(client ports.HTTPClient, ep Endpoints) *Checker {
	var engine, companion []Strategy
	if ep.EngineTagsURL != "" {
		engine = append(engine, &jsonField{client: client, url: ep.EngineTagsURL, path: "results.0.name"})
	}
	if ep.CompanionUpdateURL != "" {
		companion = append(companion, &jsonField{client: client, url: ep.CompanionUpdateURL, path: "version"})
	}
	if ep.CompanionInstallerURL != "" {
		companion = append(companion, &headerField{client: client, url: ep.CompanionInstallerURL, header: "X-Version"})
	}
	return &Checker{
		Engine:    FirstOf(engine...),
		Companion: FirstOf(companion...),
	}
}

// CheckEngine looks up an engine update for the given version.
func (c *Checker) CheckEngine(ctx context.Context, current string) *bool {
	if c == nil || c.Engine == nil || current == "" {
		return nil
	}
	return c.Engine.Check(ctx, current)
}

// CheckCompanion looks up a companion update for the given version.
func (c *Checker) CheckCompanion(ctx context.Context, current string) *bool {
	if c == nil || c.Companion == nil || current == "" {
		return nil
	}
	return c.Companion.Check(ctx, current)
}

// fetch performs a request and returns the response only for 2xx statuses.
func fetch(ctx context.Context, client ports.HTTPClient, method, url string) (*http.Response, bool) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, false
	}
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		return nil, false
	}
	return resp, true
}

func verdict(current, latest string) *bool {
	newer := Compare(current, latest)
	return &newer
}
