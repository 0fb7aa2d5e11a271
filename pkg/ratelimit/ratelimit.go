// Package ratelimit gates order submission per (game, player), so
// that a single misbehaving client cannot monopolize a game's lock.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Keyed hands out one token bucket per string key (typically
// "<gameID>:<playerID>"), creating it lazily on first use.
type Keyed struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	burst   int
}

// NewKeyed returns a Keyed limiter where each distinct key gets its
// own bucket refilling at `r` events/sec with the given burst.
func NewKeyed(r rate.Limit, burst int) *Keyed {
	return &Keyed{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		burst:   burst,
	}
}

// Allow reports whether an event under `key` may proceed right now,
// consuming a token if so.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	limiter, ok := k.buckets[key]
	if !ok {
		limiter = rate.NewLimiter(k.r, k.burst)
		k.buckets[key] = limiter
	}
	k.mu.Unlock()

	return limiter.Allow()
}

// Forget drops the bucket for `key`, e.g. when a game is deleted.
func (k *Keyed) Forget(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.buckets, key)
}
