package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a token bucket for a single identity.
type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// UserRateLimiter keeps one token bucket per identity (user id or ip).
// Buckets idle for longer than the expiration are swept in the background.
type UserRateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rate       float64 // tokens per second
	capacity   float64
	expiration time.Duration
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func New(rate float64, capacity float64, expiration time.Duration) *UserRateLimiter {
	url := &UserRateLimiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		capacity:   capacity,
		expiration: expiration,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go url.sweepLoop()
	return url
}

// Allow takes one token from identity's bucket.
func (url *UserRateLimiter) Allow(identity string) bool {
	url.mu.Lock()
	defer url.mu.Unlock()

	now := url.now()
	b, ok := url.buckets[identity]
	if !ok {
		b = &bucket{tokens: url.capacity, lastRefill: now}
		url.buckets[identity] = b
	}
	b.lastSeen = now

	b.tokens += now.Sub(b.lastRefill).Seconds() * url.rate
	if b.tokens > url.capacity {
		b.tokens = url.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Len returns the number of tracked identities.
func (url *UserRateLimiter) Len() int {
	url.mu.Lock()
	defer url.mu.Unlock()
	return len(url.buckets)
}

func (url *UserRateLimiter) sweep() {
	url.mu.Lock()
	defer url.mu.Unlock()

	cutoff := url.now().Add(-url.expiration)
	for id, b := range url.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(url.buckets, id)
		}
	}
}

func (url *UserRateLimiter) sweepLoop() {
	interval := url.expiration
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			url.sweep()
		case <-url.stop:
			return
		}
	}
}

// Stop ends the background sweep. Safe to call more than once.
func (url *UserRateLimiter) Stop() {
	url.stopOnce.Do(func() { close(url.stop) })
}
