package worker

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles document reads per directory
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new limiter. readsPerSecond <= 0 means unlimited.
func NewLimiter(readsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(readsPerSecond)
	if readsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait waits for read clearance for the directory holding path
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.getLimiter(dirKey(path)).Wait(ctx)
}

// Allow checks if a read is allowed without waiting
func (l *Limiter) Allow(path string) bool {
	return l.getLimiter(dirKey(path)).Allow()
}

func (l *Limiter) getLimiter(dir string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[dir]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[dir]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[dir] = limiter

	return limiter
}

// dirKey maps a document path to its limiter key
func dirKey(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
