// Package ratelimit limits requests per client key with token buckets.
// Buckets for keys that have gone quiet are evicted in the background.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a key may go unused before its bucket is dropped.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps requests per second per key with the
// given burst. A zero or negative rps disables limiting.
func New(rps float64, burst int, idleTTL time.Duration) *Limiter {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	l := &Limiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if rps <= 0 {
		l.limit = rate.Inf
	}

	go l.sweepLoop()

	return l
}

// PerMinute creates a limiter allowing n requests per minute per key, with a
// burst of n.
func PerMinute(n int) *Limiter {
	return New(float64(n)/time.Minute.Seconds(), max(n, 1), DefaultIdleTTL)
}

// Allow reports whether a request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// RetryAfter returns how long key must wait for its next token.
func (l *Limiter) RetryAfter(key string) time.Duration {
	r := l.get(key).Reserve()
	defer r.Cancel()
	return r.Delay()
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = l.now()
	return e.limiter
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep drops buckets idle for longer than idleTTL. An idle bucket has
// refilled anyway, so dropping it loses nothing.
func (l *Limiter) sweep() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

// Stop shuts down the sweeper. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}
