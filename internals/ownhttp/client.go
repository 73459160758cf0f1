// Package ownhttp provides the http client used for all outgoing
// requests: it sets a proper User-Agent and can throttle request rates.
package ownhttp

import (
	"fmt"
	"net/http"
	"runtime"
)

// UserAgent identifies this launcher against the various metadata
// services. Version is injected from main.
var UserAgent = fmt.Sprintf(
	"craftlaunch (%s/%s)",
	runtime.GOOS, runtime.GOARCH,
)

// New returns a new http.Client with the AddHeaderTransport (setting the User-Agent header)
func New() *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil)}
}

// AddHeaderTransport sets the User-Agent header on every request
type AddHeaderTransport struct {
	T http.RoundTripper
}

func (t *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.T.RoundTrip(req)
}

func NewAddHeaderTransport(T http.RoundTripper) *AddHeaderTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &AddHeaderTransport{T}
}
