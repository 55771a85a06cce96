package backend

import (
	"net/http"
	"time"

	"browsemate/cli/internal/manifest"
)

// userAgent is sent with every request.
const userAgent = "browsemate-cli/1.0"

// HTTP implements Identity and Catalog over REST endpoints.
type HTTP struct {
	// m holds the resolved endpoint URLs and the identity API key
	m *manifest.Manifest
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client for the manifest endpoints.
// The request timeout comes from the manifest and defaults to 10 seconds.
func newHTTP(m *manifest.Manifest) *HTTP {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		m:      m,
		client: &http.Client{Timeout: timeout},
	}
}

// setStandardHeaders sets headers common to every request.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
}
