package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"finboard/cache"
	"finboard/config"
	"finboard/credits"
	"finboard/marketdata"
	"finboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubLLM) Model() string { return "stub/model-v1" }

func testConfig() config.Config {
	return config.Config{
		// Zero upstream budget keeps the market service on deterministic mocks
		UpstreamLimitPerMin: 0,
		CacheTTLQuote:       time.Minute,
		CacheTTLSearch:      time.Minute,
		CacheTTLProfile:     time.Minute,
		CacheTTLMacro:       time.Minute,
		CacheTTLAnalysis:    time.Minute,
		AnalysisCreditCost:  5,
	}
}

func setupAnalyzer(t *testing.T, llm LLMClient) (*Analyzer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CreditTransaction{}, &models.Analysis{}))

	cfg := testConfig()
	store := cache.NewMemoryCache()
	market := marketdata.NewService(cfg, cache.NewMemoryCache())
	return NewAnalyzer(db, store, market, llm, cfg), db
}

func seedUser(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()
	user := models.User{
		Email:         fmt.Sprintf("%s@example.com", t.Name()),
		Password:      "hashed",
		CreditBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestAnalyzeChargesAndPersists(t *testing.T) {
	llm := &stubLLM{response: "The company is holding steady."}
	analyzer, db := setupAnalyzer(t, llm)
	user := seedUser(t, db, 25)

	analysis, err := analyzer.Analyze(context.Background(), user.ID, "aapl", models.AnalysisKindSummary)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", analysis.Symbol)
	assert.Equal(t, models.AnalysisKindSummary, analysis.Kind)
	assert.Equal(t, "The company is holding steady.", analysis.Response)
	assert.Equal(t, "stub/model-v1", analysis.ModelName)
	assert.Equal(t, int64(5), analysis.CreditsUsed)
	assert.False(t, analysis.FromCache)
	assert.NotEmpty(t, analysis.Params)
	assert.Equal(t, 1, llm.calls)

	balance, err := credits.Balance(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	var ledger []models.CreditTransaction
	db.Where("user_id = ?", user.ID).Find(&ledger)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.CreditTypeConsume, ledger[0].TransactionType)
	assert.Equal(t, "analysis", ledger[0].ReferenceType)
}

func TestAnalyzeServesCacheWithoutCharge(t *testing.T) {
	llm := &stubLLM{response: "Bull: growth. Bear: valuation."}
	analyzer, db := setupAnalyzer(t, llm)
	user := seedUser(t, db, 25)
	ctx := context.Background()

	_, err := analyzer.Analyze(ctx, user.ID, "MSFT", models.AnalysisKindBullBear)
	require.NoError(t, err)

	replay, err := analyzer.Analyze(ctx, user.ID, "MSFT", models.AnalysisKindBullBear)
	require.NoError(t, err)

	assert.True(t, replay.FromCache)
	assert.Equal(t, int64(0), replay.CreditsUsed)
	assert.Equal(t, "Bull: growth. Bear: valuation.", replay.Response)
	assert.Equal(t, 1, llm.calls, "cached replay must not hit the llm")

	balance, err := credits.Balance(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance, "cached replay must not charge")

	var count int64
	db.Model(&models.Analysis{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count, "both runs are recorded in history")
}

func TestAnalyzeRefundsOnLLMFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("upstream 500")}
	analyzer, db := setupAnalyzer(t, llm)
	user := seedUser(t, db, 25)

	_, err := analyzer.Analyze(context.Background(), user.ID, "TSLA", models.AnalysisKindRisks)
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	balance, err := credits.Balance(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance, "charge must be refunded")

	var ledger []models.CreditTransaction
	db.Where("user_id = ?", user.ID).Order("id asc").Find(&ledger)
	require.Len(t, ledger, 2)
	assert.Equal(t, models.CreditTypeConsume, ledger[0].TransactionType)
	assert.Equal(t, models.CreditTypeRefund, ledger[1].TransactionType)
	assert.Equal(t, ledger[0].ReferenceID, ledger[1].ReferenceID, "refund references the original spend")

	var count int64
	db.Model(&models.Analysis{}).Count(&count)
	assert.Equal(t, int64(0), count, "failed run leaves no analysis row")
}

func TestAnalyzeInsufficientCredits(t *testing.T) {
	llm := &stubLLM{response: "never used"}
	analyzer, db := setupAnalyzer(t, llm)
	user := seedUser(t, db, 3)

	_, err := analyzer.Analyze(context.Background(), user.ID, "NVDA", models.AnalysisKindSummary)
	assert.ErrorIs(t, err, credits.ErrInsufficientCredits)
	assert.Equal(t, 0, llm.calls, "llm must not be called when the charge fails")
}

func TestAnalyzeUnknownKind(t *testing.T) {
	llm := &stubLLM{response: "never used"}
	analyzer, db := setupAnalyzer(t, llm)
	user := seedUser(t, db, 25)

	_, err := analyzer.Analyze(context.Background(), user.ID, "AAPL", "horoscope")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
