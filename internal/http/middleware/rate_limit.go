package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"devdrawer/internal/utils"
	"github.com/gin-gonic/gin"
)

const rateWindow = time.Minute

// RateLimiter is a fixed-window counter per client IP.
type RateLimiter struct {
	limit int
	now   func() time.Time

	mu        sync.Mutex
	items     map[string]*rateEntry
	lastSweep time.Time
}

type rateEntry struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit: limit,
		now:   time.Now,
		items: make(map[string]*rateEntry),
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		allowed, reset := rl.allow(c.ClientIP())
		if !allowed {
			retry := int(reset.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			utils.RespondError(c, utils.NewAppError(http.StatusTooManyRequests, utils.CodeRateLimit, "Too many requests. Please try again later.", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) (bool, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	entry, ok := rl.items[key]
	if !ok || now.After(entry.reset) {
		entry = &rateEntry{reset: now.Add(rateWindow)}
		rl.items[key] = entry
	}
	entry.count++
	return entry.count <= rl.limit, entry.reset
}

// sweep drops expired windows at most once per window. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rateWindow {
		return
	}
	for key, entry := range rl.items {
		if now.After(entry.reset) {
			delete(rl.items, key)
		}
	}
	rl.lastSweep = now
}
