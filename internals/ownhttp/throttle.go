package ownhttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottleTransport rate limits outgoing requests. It is used for the
// asset object CDN, which serves thousands of tiny files per launch.
type ThrottleTransport struct {
	T       http.RoundTripper
	limiter *rate.Limiter
}

func (tt *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := tt.limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}

	return tt.T.RoundTrip(req)
}

func NewThrottleTransport(T http.RoundTripper, limiter *rate.Limiter) *ThrottleTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &ThrottleTransport{T, limiter}
}

// NewThrottled returns a client limited to n requests per second
func NewThrottled(n int) *http.Client {
	limiter := rate.NewLimiter(rate.Limit(n), n)
	return &http.Client{
		Transport: NewThrottleTransport(NewAddHeaderTransport(nil), limiter),
	}
}
