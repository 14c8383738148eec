package generichttp

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit is middleware that rejects requests with 429 Too Many Requests
// once the limiter is exhausted
type RateLimit struct {
	Limiter *rate.Limiter
}

// NewRateLimit allows perSecond requests per second with bursts of burst.
// A non-positive perSecond disables limiting.
func NewRateLimit(perSecond float64, burst int) RateLimit {
	if perSecond <= 0 {
		return RateLimit{Limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return RateLimit{Limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Check is the middleware function
func (rl RateLimit) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Limiter.Allow() {
			http.Error(w, "too many image requests, retry later", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
