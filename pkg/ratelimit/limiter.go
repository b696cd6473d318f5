// Package ratelimit provides a token-bucket limiter used to pace cache
// warm-up fetches so the scheduled job never floods the database.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is a token-bucket rate limiter. Tokens refill continuously
// at the configured rate up to the bucket capacity. Safe for concurrent use.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewTokenBucket creates a limiter allowing ratePerSec operations per
// second with bursts up to capacity.
func NewTokenBucket(ratePerSec, capacity int) *TokenBucket {
	if ratePerSec < 1 {
		ratePerSec = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: float64(ratePerSec),
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available
func (b *TokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is done
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		// Time until the next whole token accrues
		wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill adds accrued tokens. Caller must hold the lock.
func (b *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}
