package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter is an http.RoundTripper that spaces outgoing calls with a token bucket.
// Waiting honors the request context.
type RateLimiter struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimiter allows perSecond calls per second with the given burst through base.
// A nil base selects http.DefaultTransport. A burst below 1 is raised to 1.
func NewRateLimiter(base http.RoundTripper, perSecond float64, burst int) *RateLimiter {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimiter{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(perSecond), max(burst, 1)),
	}
}

// RoundTrip implements http.RoundTripper.
func (l *RateLimiter) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	return l.base.RoundTrip(req)
}
