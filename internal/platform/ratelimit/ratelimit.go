// Package ratelimit provides per-player action throttling, backing the
// transport layer's rate limit independent of the teacher's fixed
// 15-second cooldown.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PlayerLimiter holds one token-bucket limiter per connected player,
// created lazily on first use and reused for the life of the
// connection.
type PlayerLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

// NewPlayerLimiter builds a limiter factory at the given rate (actions
// per second) and burst size.
func NewPlayerLimiter(actionsPerSecond float64, burst int) *PlayerLimiter {
	return &PlayerLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(actionsPerSecond),
		burst:    burst,
	}
}

// Allow reports whether playerID may perform an action right now,
// consuming one token if so.
func (p *PlayerLimiter) Allow(playerID string) bool {
	return p.limiterFor(playerID).Allow()
}

// Evict drops a player's limiter on disconnect so memory doesn't grow
// unbounded across the life of the server.
func (p *PlayerLimiter) Evict(playerID string) {
	p.mu.Lock()
	delete(p.limiters, playerID)
	p.mu.Unlock()
}

func (p *PlayerLimiter) limiterFor(playerID string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[playerID]
	if !ok {
		l = rate.NewLimiter(p.rps, p.burst)
		p.limiters[playerID] = l
	}
	return l
}
