package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/config"
	"finboard/database"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// resetLimiter clears the package singleton so tests start from a cold state.
func resetLimiter() {
	limiter.mu.Lock()
	limiter.buckets = make(map[string]*rateBucket)
	limiter.mu.Unlock()

	limiter.rulesMu.Lock()
	limiter.rules = make(map[string]models.RateLimitRule)
	limiter.lastRefresh = time.Time{}
	limiter.rulesMu.Unlock()
}

func newLimitedApp(scope string) *fiber.App {
	app := fiber.New()
	app.Get("/ping", RateLimit(scope), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func ping(t *testing.T, app *fiber.App, ip string) int {
	t.Helper()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimitEnforcesCeiling(t *testing.T) {
	config.AppConfig = &config.Config{RateLimitPerMin: 100}
	database.Database = database.DbInstance{}
	resetLimiter()

	app := newLimitedApp(models.RateLimitScopeContact)

	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusOK, ping(t, app, "203.0.113.1"))
	}

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Too many requests. Please try again later.", body.Message)
}

func TestRateLimitSeparatesClients(t *testing.T) {
	config.AppConfig = &config.Config{RateLimitPerMin: 100}
	database.Database = database.DbInstance{}
	resetLimiter()

	app := newLimitedApp(models.RateLimitScopeContact)

	for i := 0; i < 5; i++ {
		require.Equal(t, fiber.StatusOK, ping(t, app, "203.0.113.1"))
	}
	assert.Equal(t, fiber.StatusTooManyRequests, ping(t, app, "203.0.113.1"))
	assert.Equal(t, fiber.StatusOK, ping(t, app, "203.0.113.2"), "other clients keep their own window")
}

func TestRateLimitWindowResets(t *testing.T) {
	config.AppConfig = &config.Config{RateLimitPerMin: 100}
	database.Database = database.DbInstance{}
	resetLimiter()

	app := newLimitedApp(models.RateLimitScopeContact)

	for i := 0; i < 5; i++ {
		require.Equal(t, fiber.StatusOK, ping(t, app, "203.0.113.1"))
	}
	require.Equal(t, fiber.StatusTooManyRequests, ping(t, app, "203.0.113.1"))

	limiter.mu.Lock()
	for _, b := range limiter.buckets {
		b.windowStart = time.Now().Add(-2 * time.Minute)
	}
	limiter.mu.Unlock()

	assert.Equal(t, fiber.StatusOK, ping(t, app, "203.0.113.1"), "expired windows start over")
}

func TestRateLimitRuleFromDatabase(t *testing.T) {
	config.AppConfig = &config.Config{RateLimitPerMin: 100}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RateLimitRule{}))
	database.Database = database.DbInstance{Db: db}

	rule := models.RateLimitRule{Scope: models.RateLimitScopeAnalysis, PerMinute: 2, Enabled: true}
	require.NoError(t, db.Create(&rule).Error)
	resetLimiter()

	app := newLimitedApp(models.RateLimitScopeAnalysis)

	require.Equal(t, fiber.StatusOK, ping(t, app, "198.51.100.9"))
	require.Equal(t, fiber.StatusOK, ping(t, app, "198.51.100.9"))
	assert.Equal(t, fiber.StatusTooManyRequests, ping(t, app, "198.51.100.9"))

	// Disabling the rule lifts the ceiling entirely
	rule.Enabled = false
	require.NoError(t, db.Save(&rule).Error)
	resetLimiter()

	for i := 0; i < 10; i++ {
		assert.Equal(t, fiber.StatusOK, ping(t, app, "198.51.100.9"))
	}
}

func TestDefaultLimitPerScope(t *testing.T) {
	config.AppConfig = &config.Config{RateLimitPerMin: 60}

	assert.Equal(t, 5, defaultLimit(models.RateLimitScopeContact))
	assert.Equal(t, 10, defaultLimit(models.RateLimitScopeAnalysis))
	assert.Equal(t, 60, defaultLimit(models.RateLimitScopeAPI))
	assert.Equal(t, 60, defaultLimit("anything-else"))
}

func TestClientIPPrefersForwardedHop(t *testing.T) {
	app := fiber.New()
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(clientIP(c))
	})

	echo := func(xff string) string {
		req := httptest.NewRequest("GET", "/ip", nil)
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(raw)
	}

	assert.Equal(t, "1.2.3.4", echo("1.2.3.4, 5.6.7.8"), "first hop is the client")
	assert.Equal(t, "9.9.9.9", echo("9.9.9.9"))
	assert.NotEmpty(t, echo(""), "falls back to the socket address")
}
