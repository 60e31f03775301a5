package marketController

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finboard/cache"
	"finboard/config"
	"finboard/marketdata"
	"finboard/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMarketApp wires the handlers against a service whose upstream
// limiter is zeroed, so every response comes from the deterministic mocks.
func setupMarketApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		UpstreamLimitPerMin: 0,
		CacheTTLQuote:       time.Minute,
		CacheTTLSearch:      time.Minute,
		CacheTTLProfile:     time.Minute,
		CacheTTLMacro:       time.Minute,
	}
	Market = marketdata.NewService(*config.AppConfig, cache.NewMemoryCache())

	app := fiber.New()
	app.Get("/api/market/quote/:symbol", Quote)
	app.Get("/api/market/quotes", BatchQuotes)
	app.Get("/api/market/search", Search)
	app.Get("/api/market/history/:symbol", History)
	app.Get("/api/market/profile/:symbol", Profile)
	app.Get("/api/market/metrics/:symbol", Metrics)
	app.Get("/api/market/macro", Macro)
	app.Get("/api/market/movers", Movers)
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, envelope) {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestQuoteNormalizesSymbol(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/quote/aapl")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Status)

	var quote marketdata.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "mock", quote.Source)
	assert.Equal(t, marketdata.MockQuote("AAPL").Price, quote.Price)
}

func TestBatchQuotesDedupesSymbols(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/quotes?symbols=aapl,AAPL,%20msft")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result marketdata.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Quotes, 2)
	assert.Equal(t, "AAPL", result.Quotes[0].Symbol)
	assert.Equal(t, "MSFT", result.Quotes[1].Symbol)
	assert.Empty(t, result.Failed)
}

func TestBatchQuotesRejectsEmptyAndOversized(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/quotes")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Symbols parameter is required!", env.Message)

	symbols := make([]string, 26)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("S%d", i)
	}
	resp, env = get(t, app, "/api/market/quotes?symbols="+strings.Join(symbols, ","))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Too many symbols! Maximum is 25.", env.Message)
}

func TestSearchRequiresQuery(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/search")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query is required!", env.Message)
}

func TestSearchDegradesWhenUpstreamLimited(t *testing.T) {
	app := setupMarketApp(t)

	// Search has no mock fallback; a throttled upstream surfaces as a 500
	resp, env := get(t, app, "/api/market/search?q=apple")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Search is temporarily unavailable!", env.Message)
}

func TestHistoryDefaultsToOneMonth(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/history/tsla")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var series marketdata.HistorySeries
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Equal(t, "TSLA", series.Symbol)
	assert.Equal(t, "1mo", series.Range)
	assert.NotEmpty(t, series.Points)

	resp, env = get(t, app, "/api/market/history/tsla?range=1y")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &series))
	assert.Equal(t, "1y", series.Range)
}

func TestProfileServesCompanyDescriptor(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/profile/nvda")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile marketdata.CompanyProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "NVDA", profile.Symbol)
	assert.NotEmpty(t, profile.Name)
	assert.NotEmpty(t, profile.Sector)
}

func TestMetricsEvaluatesFundamentals(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/metrics/amd")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Symbol  string           `json:"symbol"`
		Metrics []metrics.Result `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "AMD", data.Symbol)
	require.NotEmpty(t, data.Metrics)
	for _, result := range data.Metrics {
		assert.NotEmpty(t, result.Key)
		assert.NotEmpty(t, result.Label)
	}
}

func TestMacroServesSeriesBundle(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/macro")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var bundle []marketdata.MacroSeries
	require.NoError(t, json.Unmarshal(env.Data, &bundle))
	require.Len(t, bundle, 5)
	assert.Equal(t, "CPIAUCSL", bundle[0].SeriesID)
	assert.NotEmpty(t, bundle[0].Points)
}

func TestMoversSplitByDirection(t *testing.T) {
	app := setupMarketApp(t)

	resp, env := get(t, app, "/api/market/movers")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Gainers []marketdata.Mover `json:"gainers"`
		Losers  []marketdata.Mover `json:"losers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Gainers)
	require.NotEmpty(t, data.Losers)

	for _, m := range data.Gainers {
		assert.GreaterOrEqual(t, m.ChangePercent, 0.0)
	}
	for _, m := range data.Losers {
		assert.Less(t, m.ChangePercent, 0.0)
	}

	// Sorted by magnitude of the day move
	for i := 1; i < len(data.Gainers); i++ {
		assert.LessOrEqual(t, data.Gainers[i].ChangePercent, data.Gainers[i-1].ChangePercent)
	}
}
