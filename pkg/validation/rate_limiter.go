package validation

import (
	"sync"
	"time"
)

// RateLimiter caps the control-input stream per client. A healthy
// client sends input at the server's update cadence; a misbehaving one
// exhausts its own bucket without starving the rest.
type RateLimiter struct {
	capacity     float64
	refillPerSec float64
	window       time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
}

// bucket holds continuously refilling tokens for one client.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter allows maxRequests per window for each client ID.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:     float64(maxRequests),
		refillPerSec: float64(maxRequests) / window.Seconds(),
		window:       window,
		buckets:      make(map[string]*bucket),
		done:         make(chan struct{}),
	}

	go rl.sweep()
	return rl
}

// Allow consumes one token for clientID, refilling first based on the
// time since the client was last seen.
func (rl *RateLimiter) Allow(clientID string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[clientID]
	if !ok {
		b = &bucket{tokens: rl.capacity}
		rl.buckets[clientID] = b
	} else {
		b.tokens += now.Sub(b.lastSeen).Seconds() * rl.refillPerSec
		if b.tokens > rl.capacity {
			b.tokens = rl.capacity
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle for two full windows so disconnected clients
// do not accumulate.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * rl.window)
			rl.mu.Lock()
			for id, b := range rl.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(rl.buckets, id)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

// Close stops the sweep goroutine.
func (rl *RateLimiter) Close() {
	close(rl.done)
}
