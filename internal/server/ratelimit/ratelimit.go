// Package ratelimit provides per-client, per-endpoint request-rate ceilings
// using token buckets refilled over a fixed window.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket allows a number of requests per time window, with tokens
// refilling at a steady rate.
type TokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow consumes a token if one is available.
func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// status returns the remaining tokens and the time at which the bucket will
// be full again, without consuming a token.
func (tb *TokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	remaining = int(tb.tokens)
	now := time.Now()
	if tb.tokens < float64(tb.capacity) {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	} else {
		resetTime = now
	}
	return remaining, resetTime
}

// refill adds tokens for the time elapsed since the last refill.
// Caller must hold tb.mu.
func (tb *TokenBucket) refill() {
	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// Info describes the rate-limit state returned with every decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages buckets per client+endpoint combination.
type Limiter struct {
	buckets    map[string]*TokenBucket
	mu         sync.RWMutex
	config     *Config
	lastAccess map[string]time.Time
	accessMu   sync.Mutex

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}

	limiter := &Limiter{
		buckets:    make(map[string]*TokenBucket),
		config:     config,
		lastAccess: make(map[string]time.Time),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanupLoop()
	}

	return limiter
}

// Allow checks whether a request from clientID to the given endpoint is
// within its ceiling.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}
	if endpoint.Limit <= 0 {
		// Unlimited endpoint, e.g. health check.
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + endpoint.Path + ":" + method
	bucket := l.bucket(key, endpoint.Limit, endpoint.Window)

	l.accessMu.Lock()
	l.lastAccess[key] = time.Now()
	l.accessMu.Unlock()

	allowed := bucket.allow()
	remaining, resetTime := bucket.status()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpoint.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// bucket gets or creates the token bucket for key.
func (l *Limiter) bucket(key string, limit int, window time.Duration) *TokenBucket {
	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()
	if exists {
		return bucket
	}

	bucket = newTokenBucket(limit, float64(limit)/window.Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, exists := l.buckets[key]; exists {
		return existing
	}
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.removeStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// removeStale drops buckets not touched within an hour.
func (l *Limiter) removeStale() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accessMu.Lock()
	defer l.accessMu.Unlock()

	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
