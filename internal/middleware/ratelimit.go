package middleware

import (
	"net/http"
	"sync"
	"time"
)

// CheckoutRateLimiter provides rate limiting for checkout attempts
type CheckoutRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.RWMutex
	maxAttempts int
	window      time.Duration
}

// NewCheckoutRateLimiter creates a new checkout rate limiter
func NewCheckoutRateLimiter(maxAttempts int, window time.Duration) *CheckoutRateLimiter {
	rl := &CheckoutRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// IsAllowed checks if a checkout attempt from the given IP is allowed
func (rl *CheckoutRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	attempts := rl.attempts[ip]

	var validAttempts []time.Time
	for _, attempt := range attempts {
		if attempt.After(cutoff) {
			validAttempts = append(validAttempts, attempt)
		}
	}

	if len(validAttempts) >= rl.maxAttempts {
		return false
	}

	rl.attempts[ip] = validAttempts

	return true
}

// RecordAttempt records a checkout attempt for the given IP
func (rl *CheckoutRateLimiter) RecordAttempt(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.attempts[ip] = append(rl.attempts[ip], time.Now())
}

// cleanup removes old entries periodically
func (rl *CheckoutRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		cutoff := time.Now().Add(-rl.window)

		for ip, attempts := range rl.attempts {
			var validAttempts []time.Time
			for _, attempt := range attempts {
				if attempt.After(cutoff) {
					validAttempts = append(validAttempts, attempt)
				}
			}

			if len(validAttempts) == 0 {
				delete(rl.attempts, ip)
			} else {
				rl.attempts[ip] = validAttempts
			}
		}
		rl.mutex.Unlock()
	}
}

// CheckoutRateLimit provides rate limiting middleware for the checkout endpoint
func CheckoutRateLimit(rateLimiter *CheckoutRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			if !rateLimiter.IsAllowed(ip) {
				http.Error(w, "Too many checkout attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}

			defer rateLimiter.RecordAttempt(ip)

			next.ServeHTTP(w, r)
		})
	}
}
