package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const (
	// Window is the decision window: hits inside the trailing window count
	// against the limit.
	Window = time.Minute
	// retention is how long hits are kept before being pruned.
	retention = 5 * time.Minute
)

// LimitError signals a denied request for a key over its window.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%d/min)", e.Limit)
}

// Limiter is an in-memory sliding-window hit counter keyed by hashed API key.
// Decision and hit recording happen under one lock, so there is no
// check-then-act window between concurrent requests for the same key.
type Limiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func New() *Limiter {
	return &Limiter{hits: make(map[string][]time.Time), now: time.Now}
}

// Allow reports whether a request for the key fits under limit hits per
// window. A denied request records no hit.
func (l *Limiter) Allow(key string, limit int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.prune(key, now)

	count := 0
	cutoff := now.Add(-Window)
	for _, t := range kept {
		if t.After(cutoff) {
			count++
		}
	}
	if count >= limit {
		return false
	}

	l.hits[key] = append(kept, now)
	return true
}

// prune drops hits older than the retention horizon; an emptied key is
// removed so idle keys do not accumulate.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	horizon := now.Add(-retention)
	old := l.hits[key]
	kept := old[:0]
	for _, t := range old {
		if t.After(horizon) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}
