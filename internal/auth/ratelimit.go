package auth

import (
	"sync"
	"time"
)

// RateLimiter locks out clients after repeated authentication failures
// within a window.
type RateLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // Failures before lockout (default: 5)
	WindowDuration  time.Duration // Window for counting failures (default: 15m)
	LockoutDuration time.Duration // Lockout length (default: 30m)
}

// DefaultRateLimitConfig returns the default limits.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter; zero values fall back to the defaults.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = def.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	return &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		now:             time.Now,
	}
}

// Allow reports whether the client may try to authenticate, and if not, for how long it is locked out.
func (rl *RateLimiter) Allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[client]
	if !exists {
		return true, 0
	}
	now := rl.now()
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts a failed attempt and reports whether the client is now locked out.
func (rl *RateLimiter) RecordFailure(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	record, exists := rl.attempts[client]
	if !exists || now.Sub(record.firstAttempt) > rl.windowDuration {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[client] = record
	}

	record.count++
	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}
	return false, 0
}

// RecordSuccess clears the failure record of the client.
func (rl *RateLimiter) RecordSuccess(client string) {
	rl.mu.Lock()
	delete(rl.attempts, client)
	rl.mu.Unlock()
}

// cleanup drops records whose window and lockout have both expired. Caller holds mu.
func (rl *RateLimiter) cleanup(now time.Time) {
	for key, record := range rl.attempts {
		if now.Sub(record.firstAttempt) > rl.windowDuration && !now.Before(record.lockedUntil) {
			delete(rl.attempts, key)
		}
	}
}
