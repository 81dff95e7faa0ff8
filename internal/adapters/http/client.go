// Package http builds the outbound client used for update lookups.
package http

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// DefaultTimeout bounds a whole update request, body included.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies update lookups to the registries.
const DefaultUserAgent = "enginewatch/1.0"

// NewUpdateClient returns an HTTP client for update sources. The transport
// negotiates HTTP/2 over TLS 1.2+ and falls back to HTTP/1.1. Every request
// carries userAgent unless the caller set one.
func NewUpdateClient(timeout time.Duration, userAgent string) (*http.Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	transport.MaxIdleConnsPerHost = 2
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("configure http2: %w", err)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: transport, userAgent: userAgent},
	}, nil
}

// userAgentTransport sets the User-Agent header on outgoing requests.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
