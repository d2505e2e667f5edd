// Package ratelimit paces the check loop. Sequential, delayed checks are a
// deliberate anti-detection measure: the watcher must look like a patient
// human, not a crawler.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter paces a caller's attempts. Wait blocks until enough time has
// passed since the previous attempt; Pause always sleeps a full jittered
// window regardless of elapsed time. Both return early only when the
// context is cancelled.
type RateLimiter interface {
	Wait(ctx context.Context) error
	Pause(ctx context.Context) error
	SetDelay(min, max time.Duration)
}

// SimpleRateLimiter enforces a jittered delay between attempts. Jitter keeps
// the inter-request spacing from being a fixed fingerprintable interval.
type SimpleRateLimiter struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
	jitter     bool
}

func NewSimpleRateLimiter(minDelay, maxDelay time.Duration) *SimpleRateLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimpleRateLimiter{
		minDelay: minDelay,
		maxDelay: maxDelay,
		jitter:   true,
	}
}

func (r *SimpleRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastAction)
	delay := r.calculateDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	r.lastAction = time.Now()
	return nil
}

// Pause sleeps the full jittered window unconditionally. This is the
// post-attempt delay of the check loop: it must be inserted after every
// attempt no matter how long the attempt itself took.
func (r *SimpleRateLimiter) Pause(ctx context.Context) error {
	r.mu.Lock()
	delay := r.calculateDelay()
	r.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}

	r.mu.Lock()
	r.lastAction = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *SimpleRateLimiter) SetDelay(min, max time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.minDelay = min
	r.maxDelay = max
}

func (r *SimpleRateLimiter) calculateDelay() time.Duration {
	if !r.jitter || r.minDelay >= r.maxDelay {
		return r.minDelay
	}

	delta := r.maxDelay - r.minDelay
	return r.minDelay + time.Duration(rand.Int63n(int64(delta)))
}

// BackoffRateLimiter widens the delay window after consecutive failed or
// blocked checks and slowly narrows it again once checks succeed. Repeated
// BLOCKED results usually mean the site is rate-limiting us already.
type BackoffRateLimiter struct {
	*SimpleRateLimiter
	errorCount    int
	successCount  int
	maxErrorCount int
	backoffFactor float64
	ceiling       time.Duration
	floor         time.Duration
}

func NewBackoffRateLimiter(minDelay, maxDelay time.Duration) *BackoffRateLimiter {
	return &BackoffRateLimiter{
		SimpleRateLimiter: NewSimpleRateLimiter(minDelay, maxDelay),
		maxErrorCount:     3,
		backoffFactor:     1.5,
		ceiling:           2 * time.Minute,
		floor:             minDelay,
	}
}

func (b *BackoffRateLimiter) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successCount++
	b.errorCount = 0

	if b.successCount > 5 {
		newMin := time.Duration(float64(b.minDelay) * 0.9)
		if newMin < b.floor {
			newMin = b.floor
		}
		b.minDelay = newMin
		b.successCount = 0
	}
}

func (b *BackoffRateLimiter) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errorCount++
	b.successCount = 0

	if b.errorCount >= b.maxErrorCount {
		newMin := time.Duration(float64(b.minDelay) * b.backoffFactor)
		newMax := time.Duration(float64(b.maxDelay) * b.backoffFactor)

		if newMin > b.ceiling {
			newMin = b.ceiling
		}
		if newMax > b.ceiling {
			newMax = b.ceiling
		}

		b.minDelay = newMin
		b.maxDelay = newMax
		b.errorCount = 0
	}
}
