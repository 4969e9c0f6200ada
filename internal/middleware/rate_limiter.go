package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateLimiter struct {
	limit   int
	window  time.Duration
	entries map[string]*rateEntry
	mu      sync.Mutex
	now     func() time.Time

	nextPurge time.Time
}

// RateLimiter returns a per-IP windowed rate limiter. A non-positive limit
// disables limiting.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := &rateLimiter{limit: limit, window: window, entries: make(map[string]*rateEntry), now: time.Now}
	rl.nextPurge = rl.now().Add(purgeInterval)
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()
	rl.maybePurge()

	rl.mu.Lock()
	entry, exists := rl.entries[ip]
	if !exists {
		entry = &rateEntry{}
		rl.entries[ip] = entry
	}
	rl.mu.Unlock()

	entry.mu.Lock()
	now := rl.now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(rl.window)
	}
	entry.count++
	over := entry.count > rl.limit
	retryAt := entry.windowEnd
	entry.mu.Unlock()

	if over {
		c.Header("Retry-After", retryAt.UTC().Format(http.TimeFormat))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests, try again shortly"))
		return
	}
	c.Next()
}

// ── Purge ────────────────────────────────────────────────────────────────────
// Expired entries are swept on the request path, at most once per
// purgeInterval.

const purgeInterval = 5 * time.Minute

func (rl *rateLimiter) maybePurge() {
	now := rl.now()
	rl.mu.Lock()
	due := !now.Before(rl.nextPurge)
	if due {
		rl.nextPurge = now.Add(purgeInterval)
	}
	rl.mu.Unlock()
	if !due {
		return
	}
	if n := rl.purge(); n > 0 {
		log.Debug().Int("entries_purged", n).Msg("rate limiter map purged")
	}
}

func (rl *rateLimiter) purge() int {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	purged := 0
	for ip, entry := range rl.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}
