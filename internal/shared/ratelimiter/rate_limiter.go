// Package ratelimiter throttles operations with a token bucket.
package ratelimiter

import "golang.org/x/time/rate"

// RateLimiter allows perSecond operations per second with bursts up to burst.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter. A burst below 1 is raised to 1.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether one more operation may run now. It never blocks.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}
