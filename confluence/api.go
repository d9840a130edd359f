package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NewAPI returns a client for a Confluence Server/Data Center instance living at baseURL,
// e.g. https://confluence.example.com or https://example.com/confluence.
func NewAPI(baseURL string, username string, token string) (*API, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence URL with --confluence-url")
	}
	if token == "" {
		return nil, fmt.Errorf("confluence: auth token is empty, please check auth-token-cmd")
	}

	// ResolveReference drops the last path segment unless it ends in a slash, which would
	// lose a context path like /confluence.
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("confluence: unsupported URL scheme %q", u.Scheme)
	}

	a := &API{
		BaseURI:  u,
		token:    token,
		username: username,
	}
	a.Client = &http.Client{
		Timeout: 60 * time.Second,
	}

	return a, nil
}

type API struct {
	// Where the instance lives, always with a trailing slash.
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.  Shared by all deletion workers.
	Client *http.Client

	// Auth info
	username, token string
}
