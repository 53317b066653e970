package transport

import "net/http"

// Authenticator applies authentication to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth applies no authentication. The public package indexes need
// none.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// BearerAuth sets an Authorization: Bearer header. An empty token
// leaves the request unauthenticated, which is how anonymous GitHub
// access works.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// HeaderAuth sets a custom header to a fixed value.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) {
	if a.Header == "" || a.Value == "" {
		return
	}
	req.Header.Set(a.Header, a.Value)
}
