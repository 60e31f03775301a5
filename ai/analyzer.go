package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finboard/cache"
	"finboard/config"
	"finboard/credits"
	"finboard/logger"
	"finboard/marketdata"
	"finboard/metrics"
	"finboard/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrUnknownKind is returned for an analysis kind outside the accepted set.
var ErrUnknownKind = errors.New("unknown analysis kind")

// ErrAnalysisFailed marks an LLM failure after the credit charge was already
// refunded. Handlers map it to a 502.
var ErrAnalysisFailed = errors.New("analysis provider failed")

var systemPrompts = map[string]string{
	models.AnalysisKindSummary:  "You are an equity research assistant. Write a concise plain-language summary of the company's current market picture from the data provided. No investment advice.",
	models.AnalysisKindBullBear: "You are an equity research assistant. Present the strongest bull case and the strongest bear case for the stock from the data provided, clearly separated. No investment advice.",
	models.AnalysisKindRisks:    "You are an equity research assistant. List the key risks an investor should research further, grounded in the data provided. No investment advice.",
}

// analysisContext is the market snapshot serialized into the prompt and
// persisted with the analysis row.
type analysisContext struct {
	Quote   *marketdata.Quote `json:"quote"`
	Metrics []metrics.Result  `json:"metrics"`
}

type cachedAnalysis struct {
	Response  string `json:"response"`
	ModelName string `json:"model"`
}

// Analyzer runs the paid analysis flow: cached responses are free, fresh
// ones charge credits before the LLM call and refund if it fails.
type Analyzer struct {
	db     *gorm.DB
	store  cache.Cache
	market *marketdata.Service
	llm    LLMClient
	cost   int64
	ttl    time.Duration
}

func NewAnalyzer(db *gorm.DB, store cache.Cache, market *marketdata.Service, llm LLMClient, cfg config.Config) *Analyzer {
	return &Analyzer{
		db:     db,
		store:  store,
		market: market,
		llm:    llm,
		cost:   int64(cfg.AnalysisCreditCost),
		ttl:    cfg.CacheTTLAnalysis,
	}
}

// Cost reports the per-analysis credit price.
func (a *Analyzer) Cost() int64 {
	return a.cost
}

// Analyze produces (or replays) an analysis for the user and persists it.
func (a *Analyzer) Analyze(ctx context.Context, userID uint, symbol, kind string) (*models.Analysis, error) {
	symbol = marketdata.NormalizeSymbol(symbol)
	systemPrompt, ok := systemPrompts[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	key := "analysis:" + symbol + ":" + kind

	var cached cachedAnalysis
	if cache.GetJSON(ctx, a.store, key, &cached) {
		analysis := &models.Analysis{
			UserID:    userID,
			Symbol:    symbol,
			Kind:      kind,
			Response:  cached.Response,
			ModelName: cached.ModelName,
			FromCache: true,
		}
		if err := a.db.Create(analysis).Error; err != nil {
			return nil, err
		}
		return analysis, nil
	}

	params, err := a.buildContext(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// Charge first so a slow LLM call cannot double-spend; the reference ID
	// ties the spend to its refund if the call fails.
	refID := uuid.NewString()
	if _, err := credits.Spend(a.db, userID, a.cost, credits.Entry{
		Description:   fmt.Sprintf("AI %s analysis for %s", kind, symbol),
		ReferenceType: "analysis",
		ReferenceID:   refID,
	}); err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf("Market data for %s as JSON:\n%s\n\nRespond in under 300 words.", symbol, params)
	response, err := a.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.Log.Error().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("llm call failed, refunding")
		if _, refundErr := credits.Refund(a.db, userID, a.cost, credits.Entry{
			Description:   fmt.Sprintf("Refund: failed %s analysis for %s", kind, symbol),
			ReferenceType: "analysis",
			ReferenceID:   refID,
		}); refundErr != nil {
			logger.Log.Error().Err(refundErr).Uint("userId", userID).Msg("credit refund failed")
		}
		return nil, ErrAnalysisFailed
	}

	analysis := &models.Analysis{
		UserID:      userID,
		Symbol:      symbol,
		Kind:        kind,
		Params:      datatypes.JSON(params),
		Response:    response,
		ModelName:   a.llm.Model(),
		CreditsUsed: a.cost,
	}
	if err := a.db.Create(analysis).Error; err != nil {
		return nil, err
	}

	_ = cache.SetJSON(ctx, a.store, key, cachedAnalysis{Response: response, ModelName: analysis.ModelName}, a.ttl)

	return analysis, nil
}

// buildContext assembles the quote + metric board fed to the model.
func (a *Analyzer) buildContext(ctx context.Context, symbol string) ([]byte, error) {
	quote, err := a.market.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	board := []metrics.Result{}
	if fund, err := a.market.Fundamentals(ctx, symbol); err == nil {
		board = metrics.Evaluate(*fund)
	}

	return json.Marshal(&analysisContext{Quote: quote, Metrics: board})
}
