package http

import "time"

// rateLimiter caps inbound frames per one-second window. It is used from a
// single goroutine (the read loop), so there is no locking. A nil limiter
// or a non-positive limit allows everything.
type rateLimiter struct {
	limit   int
	counter int
	window  time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return nil
	}
	return &rateLimiter{limit: limit}
}

// allow counts one frame against the window containing now.
func (r *rateLimiter) allow(now time.Time) bool {
	if r == nil {
		return true
	}
	if now.Sub(r.window) >= time.Second {
		r.window = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
