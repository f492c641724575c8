package http

import (
	"context"
	"net/http"
)

// HTTPClient is the client contract the fetch package depends on; it allows
// mocking and alternative implementations.
type HTTPClient interface {
	// Do executes an HTTP request with token injection and retry logic.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)

	// DoJSON performs a request and unmarshals the JSON response.
	DoJSON(ctx context.Context, req *http.Request, v interface{}) error

	// GetJSON performs a GET request and unmarshals the JSON response.
	GetJSON(ctx context.Context, url string, v interface{}) error

	// PostJSON performs a POST request with a JSON body and unmarshals
	// the JSON response.
	PostJSON(ctx context.Context, url string, body interface{}, v interface{}) error
}

// Ensure Client implements HTTPClient.
var _ HTTPClient = (*Client)(nil)
