package ratelimit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBudgetExhausted is returned by Use once the window budget is spent.
var ErrBudgetExhausted = errors.New("AI request budget exhausted")

// AIRateLimiter caps the number of AI requests per window.
type AIRateLimiter struct {
	mu        sync.Mutex
	provider  string
	count     int
	max       int // 0 = unlimited
	window    time.Duration
	resetTime time.Time
	cacheHits int
	now       func() time.Time
}

// NewAIRateLimiter creates a limiter allowing max requests per window.
// A window of zero defaults to 24h.
func NewAIRateLimiter(provider string, max int, window time.Duration) *AIRateLimiter {
	if window <= 0 {
		window = 24 * time.Hour
	}
	rl := &AIRateLimiter{
		provider: provider,
		max:      max,
		window:   window,
		now:      time.Now,
	}
	rl.resetTime = rl.now().Add(window)
	return rl
}

// CanUse reports whether another request fits in the budget.
func (rl *AIRateLimiter) CanUse() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()
	return rl.max <= 0 || rl.count < rl.max
}

// Use spends one request from the budget.
func (rl *AIRateLimiter) Use() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.max > 0 && rl.count >= rl.max {
		slog.Warn("AI rate limit reached", "provider", rl.provider, "used", rl.count, "limit", rl.max)
		return fmt.Errorf("%s: %w (%d/%d, resets at %s)", rl.provider, ErrBudgetExhausted,
			rl.count, rl.max, rl.resetTime.Format(time.RFC3339))
	}

	rl.count++
	slog.Debug("AI usage", "provider", rl.provider, "used", rl.count, "limit", rl.max)
	return nil
}

// RecordCacheHit counts a request answered from cache.
func (rl *AIRateLimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

// GetStats returns current limiter statistics.
func (rl *AIRateLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"provider":   rl.provider,
		"used":       rl.count,
		"limit":      rl.max,
		"cache_hits": rl.cacheHits,
		"reset_time": rl.resetTime.Format(time.RFC3339),
	}
}

// checkReset resets counters if reset time has passed
func (rl *AIRateLimiter) checkReset() {
	now := rl.now()
	if now.After(rl.resetTime) {
		slog.Info("Resetting AI rate limiter counters", "provider", rl.provider, "used", rl.count)
		rl.count = 0
		rl.cacheHits = 0
		rl.resetTime = now.Add(rl.window)
	}
}
