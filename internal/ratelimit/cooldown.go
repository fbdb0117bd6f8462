// Package ratelimit throttles repeated order submissions.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWindow is the minimum gap between two orders from the same key.
const DefaultWindow = 8 * time.Second

// Cooldown tracks one single-token limiter per key. A key that placed an order
// less than one window ago has no token and is refused.
type Cooldown struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[string]*rate.Limiter
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window:   window,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Ready reports whether every non-empty key may place an order at now.
// It does not consume anything; call Record once the order is accepted.
func (c *Cooldown) Ready(now time.Time, keys ...string) bool {
	if c.window <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		if k == "" {
			continue
		}
		if lim, ok := c.limiters[k]; ok && lim.TokensAt(now) < 1 {
			return false
		}
	}
	return true
}

// Record starts a new window for every non-empty key.
func (c *Cooldown) Record(now time.Time, keys ...string) {
	if c.window <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		if k == "" {
			continue
		}
		lim, ok := c.limiters[k]
		if !ok {
			lim = rate.NewLimiter(rate.Every(c.window), 1)
			c.limiters[k] = lim
		}
		lim.AllowN(now, 1)
	}
}

// Sweep forgets keys whose window has fully elapsed. It returns how many were removed.
func (c *Cooldown) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, lim := range c.limiters {
		if lim.TokensAt(now) >= 1 {
			delete(c.limiters, k)
			removed++
		}
	}
	return removed
}

// Len is the number of keys currently tracked.
func (c *Cooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}
