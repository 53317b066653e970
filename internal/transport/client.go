// Package transport provides the shared HTTP client the registry
// adapters fetch through: one timeout policy, JSON decoding, and
// status codes mapped onto the error taxonomy.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/metafunctor/mf/pkg/errors"
)

// DefaultTimeout bounds every registry request. Collaborators own
// their timeouts; the stores impose none.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client bound to one registry.
type Client struct {
	registry string
	http     *http.Client
	auth     Authenticator
}

// New creates a client for the named registry with the given
// authenticator.
func New(registry string, auth Authenticator) *Client {
	return &Client{
		registry: registry,
		http:     &http.Client{Timeout: DefaultTimeout},
		auth:     auth,
	}
}

// Do performs the request with authentication and common headers
// applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.auth != nil {
		c.auth.Apply(req)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(c.registry, 0, err)
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(c.registry, 0, err)
	}
	return c.Do(req)
}

// GetJSON performs a GET request and decodes the JSON body into
// target. Non-200 responses become an APIError carrying the registry
// name, status code, and endpoint; a 404 satisfies
// errors.Is(err, ErrNotFound).
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return DecodeResponse(c.registry, url, resp, target)
}
