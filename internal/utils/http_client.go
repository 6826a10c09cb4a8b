package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with its own connection pool.
// Retries are disabled: every request is a single round-trip, and a failed
// sync item is retried by the next push pass instead.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New().SetRetryCount(0)}
}
