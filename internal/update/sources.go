package update

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/bft-labs/enginewatch/internal/ports"
)

// jsonField reads the latest version from a JSON document at a gjson path.
// The schema is not ours: a missing or non-string field is "unknown".
type jsonField struct {
	client ports.HTTPClient
	url    string
	path   string
}

func (s *jsonField) Check(ctx context.Context, current string) *bool {
	resp, ok := fetch(ctx, s.client, http.MethodGet, s.url)
	if !ok {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil || !gjson.ValidBytes(body) {
		return nil
	}
	latest := gjson.GetBytes(body, s.path)
	if latest.Type != gjson.String || strings.TrimSpace(latest.Str) == "" {
		return nil
	}
	return verdict(current, latest.Str)
}

// headerField reads the latest version from a response header of a HEAD
// request, as some download hosts advertise the installer version.
type headerField struct {
	client ports.HTTPClient
	url    string
	header string
}

func (s *headerField) Check(ctx context.Context, current string) *bool {
	resp, ok := fetch(ctx, s.client, http.MethodHead, s.url)
	if !ok {
		return nil
	}
	resp.Body.Close()

	latest := strings.TrimSpace(resp.Header.Get(s.header))
	if latest == "" {
		return nil
	}
	return verdict(current, latest)
}
