package middleware

import (
	"strings"
	"sync"
	"time"

	"finboard/config"
	"finboard/database"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

type rateBucket struct {
	count       int
	windowStart time.Time
}

// RateLimiter applies a fixed per-minute ceiling per client IP and scope.
// Limits come from the rate_limit_rules table and are re-read every 30s so
// admin changes take effect without a restart.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket

	rulesMu     sync.RWMutex
	rules       map[string]models.RateLimitRule
	lastRefresh time.Time
}

var limiter = &RateLimiter{
	buckets: make(map[string]*rateBucket),
	rules:   make(map[string]models.RateLimitRule),
}

// RateLimit returns a handler enforcing the ceiling for the given scope.
func RateLimit(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := limiter.limitFor(scope)
		if limit <= 0 {
			return c.Next()
		}

		ip := clientIP(c)
		if !limiter.allow(scope+":"+ip, limit) {
			return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests. Please try again later.", nil)
		}
		return c.Next()
	}
}

func (r *RateLimiter) allow(key string, limit int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	b, ok := r.buckets[key]
	if !ok || now.Sub(b.windowStart) >= time.Minute {
		r.buckets[key] = &rateBucket{count: 1, windowStart: now}
		r.evictStale(now)
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// evictStale drops buckets whose window expired. Called with mu held.
func (r *RateLimiter) evictStale(now time.Time) {
	if len(r.buckets) < 10000 {
		return
	}
	for k, b := range r.buckets {
		if now.Sub(b.windowStart) >= time.Minute {
			delete(r.buckets, k)
		}
	}
}

func (r *RateLimiter) limitFor(scope string) int {
	r.rulesMu.RLock()
	fresh := time.Since(r.lastRefresh) < 30*time.Second
	rule, ok := r.rules[scope]
	r.rulesMu.RUnlock()

	if !fresh {
		r.refreshRules()
		r.rulesMu.RLock()
		rule, ok = r.rules[scope]
		r.rulesMu.RUnlock()
	}

	if ok {
		if !rule.Enabled {
			return 0
		}
		return rule.PerMinute
	}
	return defaultLimit(scope)
}

func (r *RateLimiter) refreshRules() {
	r.rulesMu.Lock()
	defer r.rulesMu.Unlock()

	if time.Since(r.lastRefresh) < 30*time.Second {
		return
	}
	r.lastRefresh = time.Now()

	if database.Database.Db == nil {
		return
	}

	var rules []models.RateLimitRule
	if err := database.Database.Db.Find(&rules).Error; err != nil {
		return
	}

	fresh := make(map[string]models.RateLimitRule, len(rules))
	for _, rule := range rules {
		fresh[rule.Scope] = rule
	}
	r.rules = fresh
}

func defaultLimit(scope string) int {
	switch scope {
	case models.RateLimitScopeContact:
		return 5
	case models.RateLimitScopeAnalysis:
		return 10
	default:
		return config.AppConfig.RateLimitPerMin
	}
}

// clientIP prefers the first X-Forwarded-For hop so limits hold behind a proxy.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	return c.IP()
}
