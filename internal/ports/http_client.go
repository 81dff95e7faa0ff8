package ports

import "net/http"

// HTTPClient abstracts HTTP operations against update metadata sources.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
