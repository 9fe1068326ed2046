package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether one more request for key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

// Now returns current time.
func (RealClock) Now() time.Time { return time.Now() }

// NopLimiter lets everything through.
type NopLimiter struct{}

// Allow always returns true.
func (NopLimiter) Allow(string) bool { return true }

// Config stores TokenBucket settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped; 0 keeps them
	MaxBuckets int           // 0 is unbounded; when full the stalest bucket is evicted
}

// TokenBucket is a per-key token bucket. The same type throttles inbound
// requests per client IP and outbound backend calls per endpoint.
type TokenBucket struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewTokenBucket creates a limiter. Non-positive Rate or Burst become 1.
func NewTokenBucket(clock Clock, cfg Config) *TokenBucket {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucket{cfg: cfg, clock: clock, buckets: make(map[string]*bucket)}
}

// PerWindow allows limit requests per window with a burst of limit.
func PerWindow(clock Clock, limit int, window time.Duration) *TokenBucket {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}
	return NewTokenBucket(clock, Config{Rate: float64(limit) / window.Seconds(), Burst: limit})
}

// Allow takes one token from key's bucket.
func (l *TokenBucket) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		l.makeRoomLocked()
		b = &bucket{tokens: float64(l.cfg.Burst), seen: now}
		l.buckets[key] = b
	}

	if dt := now.Sub(b.seen); dt > 0 {
		b.tokens = min(b.tokens+dt.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len is the number of tracked keys.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucket) sweepLocked(now time.Time) {
	if l.cfg.TTL <= 0 || now.Before(l.nextSweep) {
		return
	}
	l.nextSweep = now.Add(max(l.cfg.TTL/2, time.Minute))
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}

// makeRoomLocked evicts the least recently seen bucket when the map is full.
// An evicted key starts over with a full bucket.
func (l *TokenBucket) makeRoomLocked() {
	if l.cfg.MaxBuckets == 0 || len(l.buckets) < l.cfg.MaxBuckets {
		return
	}
	var (
		stalest string
		oldest  time.Time
	)
	for k, b := range l.buckets {
		if stalest == "" || b.seen.Before(oldest) {
			stalest, oldest = k, b.seen
		}
	}
	delete(l.buckets, stalest)
}
