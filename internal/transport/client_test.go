package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/pkg/errors"
)

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"name":"httpx"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	c := New("pypi", &NoAuth{})
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "httpx", out.Name)
}

func TestGetJSONMapsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"404 is not found", http.StatusNotFound, func(t *testing.T, err error) {
			assert.True(t, errors.IsNotFound(err))
		}},
		{"500 is unavailable", http.StatusInternalServerError, func(t *testing.T, err error) {
			assert.True(t, errors.IsRegistryUnavailable(err))
		}},
		{"403 is a plain API error", http.StatusForbidden, func(t *testing.T, err error) {
			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
			assert.False(t, errors.IsNotFound(err))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := New("cran", &NoAuth{})
			err := c.GetJSON(context.Background(), srv.URL, &struct{}{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New("github", &BearerAuth{Token: "tok"})
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
	assert.Equal(t, "Bearer tok", got)

	c = New("github", &BearerAuth{})
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}))
	assert.Empty(t, got)
}
