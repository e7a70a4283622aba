package middleware

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxMemoryKeys = 10000

type bucket struct {
	lim      *rate.Limiter
	window   time.Duration
	lastSeen time.Time
}

// memoryLimiter keeps a token bucket per key and is used when Redis is not
// configured. A bucket refills maxRequests tokens over one window. State is
// per process.
type memoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

// incr takes one token for key and returns how many of the maxRequests
// allowed per window are now used. A result above maxRequests means denied.
func (m *memoryLimiter) incr(key string, maxRequests int, window time.Duration) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= maxMemoryKeys {
			m.sweep(now)
		}
		every := window / time.Duration(max(1, maxRequests))
		b = &bucket{lim: rate.NewLimiter(rate.Every(every), maxRequests), window: window}
		m.buckets[key] = b
	}
	b.lastSeen = now

	if !b.lim.AllowN(now, 1) {
		return int64(maxRequests) + 1
	}
	left := int64(math.Floor(b.lim.TokensAt(now)))
	return int64(maxRequests) - left
}

// sweep drops buckets idle for a whole window. They would be full again.
func (m *memoryLimiter) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) >= b.window {
			delete(m.buckets, k)
		}
	}
}
