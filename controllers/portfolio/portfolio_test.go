package portfolioController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/cache"
	"finboard/config"
	"finboard/database"
	"finboard/marketdata"
	"finboard/middleware"
	"finboard/models"
	portfolioValidator "finboard/validators/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupPortfolioApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:              "test-secret",
		UpstreamLimitPerMin: 0, // force deterministic mock market data
		CacheTTLQuote:       time.Minute,
		CacheTTLSearch:      time.Minute,
		CacheTTLProfile:     time.Minute,
		CacheTTLMacro:       time.Minute,
	}
	Market = marketdata.NewService(*config.AppConfig, cache.NewMemoryCache())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Plan{}, &models.Portfolio{}, &models.Holding{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/api/portfolio/", portfolioValidator.CreatePortfolio(), middleware.JWTMiddleware, CreatePortfolio)
	app.Get("/api/portfolio/", middleware.JWTMiddleware, ListPortfolios)
	app.Get("/api/portfolio/:id", middleware.JWTMiddleware, GetPortfolio)
	app.Put("/api/portfolio/:id", portfolioValidator.UpdatePortfolio(), middleware.JWTMiddleware, UpdatePortfolio)
	app.Delete("/api/portfolio/:id", middleware.JWTMiddleware, DeletePortfolio)
	app.Post("/api/portfolio/:id/holdings", portfolioValidator.AddHolding(), middleware.JWTMiddleware, AddHolding)
	app.Put("/api/portfolio/:id/holdings/:hid", portfolioValidator.UpdateHolding(), middleware.JWTMiddleware, UpdateHolding)
	app.Delete("/api/portfolio/:id/holdings/:hid", middleware.JWTMiddleware, DeleteHolding)
	app.Get("/api/portfolio/:id/analytics", middleware.JWTMiddleware, GetAnalytics)
	return app, db
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func request(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func seedUser(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func createPortfolio(t *testing.T, app *fiber.App, token, name string) uint {
	t.Helper()

	resp, env := request(t, app, "POST", "/api/portfolio/", token, fiber.Map{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func TestCreatePortfolioFirstBecomesDefault(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "first@example.com")

	resp, env := request(t, app, "POST", "/api/portfolio/", token, fiber.Map{"name": "Long Term"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		IsDefault bool   `json:"isDefault"`
		Currency  string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.IsDefault)
	assert.Equal(t, "USD", created.Currency, "currency defaults to USD")

	resp, env = request(t, app, "POST", "/api/portfolio/", token, fiber.Map{"name": "Swing Trades", "currency": "eur"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.False(t, created.IsDefault)
	assert.Equal(t, "EUR", created.Currency)
}

func TestCreatePortfolioEnforcesPlanCap(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "capped@example.com")

	require.NoError(t, db.Create(&models.Plan{
		Key: "free", Name: "Free", MaxPortfolios: 1, MaxAlerts: 5, IsActive: true,
	}).Error)

	resp, _ := request(t, app, "POST", "/api/portfolio/", token, fiber.Map{"name": "Only One"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := request(t, app, "POST", "/api/portfolio/", token, fiber.Map{"name": "One Too Many"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Portfolio limit reached for your plan!", env.Message)
}

func TestPortfolioHiddenFromOtherUsers(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, ownerToken := seedUser(t, db, "owner@example.com")
	_, otherToken := seedUser(t, db, "other@example.com")

	id := createPortfolio(t, app, ownerToken, "Private")
	target := fmt.Sprintf("/api/portfolio/%d", id)

	resp, _ := request(t, app, "GET", target, ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := request(t, app, "GET", target, otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Portfolio not found!", env.Message)

	resp, _ = request(t, app, "PUT", target, otherToken, fiber.Map{"name": "Hijacked"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = request(t, app, "DELETE", target, otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The owner's portfolio is untouched by the failed attempts
	var portfolio models.Portfolio
	require.NoError(t, db.First(&portfolio, id).Error)
	assert.Equal(t, "Private", portfolio.Name)
	assert.False(t, portfolio.IsDeleted)
}

func TestAddHoldingMergesWeightedAverage(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "merge@example.com")
	id := createPortfolio(t, app, token, "Merging")
	target := fmt.Sprintf("/api/portfolio/%d/holdings", id)

	resp, env := request(t, app, "POST", target, token, fiber.Map{
		"symbol": "AAPL", "quantity": 10.0, "avgCost": 100.0,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Holding added successfully.", env.Message)

	// Same symbol (any case) merges instead of duplicating
	resp, env = request(t, app, "POST", target, token, fiber.Map{
		"symbol": "aapl", "quantity": 10.0, "avgCost": 200.0,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Holding merged successfully.", env.Message)

	var merged struct {
		Symbol   string  `json:"symbol"`
		Quantity float64 `json:"quantity"`
		AvgCost  float64 `json:"avgCost"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &merged))
	assert.Equal(t, "AAPL", merged.Symbol)
	assert.InDelta(t, 20.0, merged.Quantity, 1e-9)
	assert.InDelta(t, 150.0, merged.AvgCost, 1e-9, "(10*100 + 10*200) / 20")

	var rows int64
	db.Model(&models.Holding{}).Where("portfolio_id = ? AND is_deleted = ?", id, false).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestUpdateAndDeleteHolding(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "edit@example.com")
	id := createPortfolio(t, app, token, "Editing")

	resp, env := request(t, app, "POST", fmt.Sprintf("/api/portfolio/%d/holdings", id), token, fiber.Map{
		"symbol": "MSFT", "quantity": 4.0, "avgCost": 300.0,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var holding struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &holding))

	target := fmt.Sprintf("/api/portfolio/%d/holdings/%d", id, holding.ID)
	resp, env = request(t, app, "PUT", target, token, fiber.Map{"quantity": 6.0})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		Quantity float64 `json:"quantity"`
		AvgCost  float64 `json:"avgCost"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.InDelta(t, 6.0, updated.Quantity, 1e-9)
	assert.InDelta(t, 300.0, updated.AvgCost, 1e-9, "untouched field keeps its value")

	resp, _ = request(t, app, "DELETE", target, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = request(t, app, "GET", fmt.Sprintf("/api/portfolio/%d", id), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail struct {
		Holdings []models.Holding `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Empty(t, detail.Holdings, "deleted holding must not be listed")
}

func TestSetDefaultClearsPreviousDefault(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "default@example.com")

	firstId := createPortfolio(t, app, token, "First")
	secondId := createPortfolio(t, app, token, "Second")

	resp, env := request(t, app, "PUT", fmt.Sprintf("/api/portfolio/%d", secondId), token, fiber.Map{"isDefault": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated struct {
		IsDefault bool `json:"isDefault"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.IsDefault)

	var first models.Portfolio
	require.NoError(t, db.First(&first, firstId).Error)
	assert.False(t, first.IsDefault, "only one default per user")
}

func TestDeletePortfolioCascadesToHoldings(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "cascade@example.com")
	id := createPortfolio(t, app, token, "Doomed")

	resp, _ := request(t, app, "POST", fmt.Sprintf("/api/portfolio/%d/holdings", id), token, fiber.Map{
		"symbol": "TSLA", "quantity": 1.0, "avgCost": 250.0,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = request(t, app, "DELETE", fmt.Sprintf("/api/portfolio/%d", id), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, app, "GET", fmt.Sprintf("/api/portfolio/%d", id), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var holding models.Holding
	require.NoError(t, db.Where("portfolio_id = ?", id).First(&holding).Error)
	assert.True(t, holding.IsDeleted)
}

func TestAnalyticsValuesHoldingsAtQuote(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "analytics@example.com")
	id := createPortfolio(t, app, token, "Valued")

	for _, h := range []fiber.Map{
		{"symbol": "AAPL", "quantity": 10.0, "avgCost": 100.0},
		{"symbol": "MSFT", "quantity": 2.0, "avgCost": 50.0},
	} {
		resp, _ := request(t, app, "POST", fmt.Sprintf("/api/portfolio/%d/holdings", id), token, h)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, env := request(t, app, "GET", fmt.Sprintf("/api/portfolio/%d/analytics", id), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Holdings []holdingAnalytics `json:"holdings"`
		Totals   struct {
			MarketValue     float64 `json:"marketValue"`
			CostBasis       float64 `json:"costBasis"`
			GainLoss        float64 `json:"gainLoss"`
			GainLossPercent float64 `json:"gainLossPercent"`
		} `json:"totals"`
		TopPerformer     *holdingAnalytics  `json:"topPerformer"`
		WorstPerformer   *holdingAnalytics  `json:"worstPerformer"`
		SectorAllocation []sectorAllocation `json:"sectorAllocation"`
		FailedSymbols    []string           `json:"failedSymbols"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Holdings, 2)

	// With the upstream limiter at zero every quote comes from the
	// deterministic mock generator, so exact values are known.
	aaplPrice := marketdata.MockQuote("AAPL").Price
	msftPrice := marketdata.MockQuote("MSFT").Price
	wantValue := 10*aaplPrice + 2*msftPrice

	assert.InDelta(t, wantValue, data.Totals.MarketValue, 0.01)
	assert.InDelta(t, 1100.0, data.Totals.CostBasis, 1e-9)
	assert.InDelta(t, wantValue-1100.0, data.Totals.GainLoss, 0.01)
	assert.Empty(t, data.FailedSymbols)

	var allocation float64
	for _, row := range data.Holdings {
		assert.False(t, row.Stale)
		allocation += row.Allocation
	}
	assert.InDelta(t, 100.0, allocation, 0.01, "allocations sum to 100%")

	require.NotNil(t, data.TopPerformer)
	require.NotNil(t, data.WorstPerformer)
	aaplGain := (aaplPrice - 100.0) / 100.0
	msftGain := (msftPrice - 50.0) / 50.0
	wantTop := "AAPL"
	if msftGain > aaplGain {
		wantTop = "MSFT"
	}
	assert.Equal(t, wantTop, data.TopPerformer.Symbol)

	// Mock profiles put every symbol in the same sector
	require.Len(t, data.SectorAllocation, 1)
	assert.Equal(t, "Industrials", data.SectorAllocation[0].Sector)
	assert.InDelta(t, 100.0, data.SectorAllocation[0].Percent, 0.01)
}

func TestAnalyticsEmptyPortfolio(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "empty@example.com")
	id := createPortfolio(t, app, token, "Untouched")

	resp, env := request(t, app, "GET", fmt.Sprintf("/api/portfolio/%d/analytics", id), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Holdings []holdingAnalytics `json:"holdings"`
		Totals   struct {
			MarketValue float64 `json:"marketValue"`
		} `json:"totals"`
		TopPerformer *holdingAnalytics `json:"topPerformer"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Holdings)
	assert.Zero(t, data.Totals.MarketValue)
	assert.Nil(t, data.TopPerformer)
}

func TestListPortfoliosIncludesHoldingCount(t *testing.T) {
	app, db := setupPortfolioApp(t)
	_, token := seedUser(t, db, "list@example.com")
	id := createPortfolio(t, app, token, "Counted")

	resp, _ := request(t, app, "POST", fmt.Sprintf("/api/portfolio/%d/holdings", id), token, fiber.Map{
		"symbol": "NVDA", "quantity": 3.0, "avgCost": 400.0,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := request(t, app, "GET", "/api/portfolio/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []struct {
		Name         string `json:"name"`
		HoldingCount int64  `json:"holdingCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Counted", list[0].Name)
	assert.Equal(t, int64(1), list[0].HoldingCount)
}
