package marketdata

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"finboard/cache"
	"finboard/config"
	"finboard/logger"
	"finboard/metrics"
)

// ErrSymbolNotFound marks a symbol no provider recognizes. Handlers map it
// to a 404; every other provider failure degrades to mock data.
var ErrSymbolNotFound = errors.New("symbol not found")

// moversUniverse is the tracked large-cap set the movers board ranks.
var moversUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B",
	"JPM", "V", "UNH", "XOM", "JNJ", "WMT", "PG", "MA", "HD", "CVX",
	"ABBV", "KO",
}

// Service fronts every market data read. Lookups go cache first, then Yahoo
// behind the upstream call limiter, then Polygon, then deterministic mocks.
type Service struct {
	cfg     config.Config
	store   cache.Cache
	limiter *CallLimiter

	yahoo   *YahooClient
	polygon *PolygonClient
	fmp     *FmpClient
	fred    *FredClient
}

func NewService(cfg config.Config, store cache.Cache) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		limiter: NewCallLimiter(cfg.UpstreamLimitPerMin, time.Minute),
		yahoo:   NewYahooClient(cfg),
		polygon: NewPolygonClient(cfg.PolygonApiKey),
		fmp:     NewFmpClient(cfg),
		fred:    NewFredClient(cfg),
	}
}

// NormalizeSymbol trims and upper-cases a user-supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Quote resolves one symbol through the fallback chain.
func (s *Service) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	key := "quote:" + symbol
	var cached Quote
	if cache.GetJSON(ctx, s.store, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	if s.limiter.Allow() {
		q, err := s.yahoo.Quote(symbol)
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, q, s.cfg.CacheTTLQuote)
			return q, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("yahoo quote failed")
	} else {
		logger.Log.Debug().Str("symbol", symbol).Msg("upstream limit hit, skipping yahoo")
	}

	if s.polygon.Enabled() {
		q, err := s.polygon.Quote(ctx, symbol)
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, q, s.cfg.CacheTTLQuote)
			return q, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("polygon quote failed")
	}

	logger.Log.Info().Str("symbol", symbol).Msg("serving mock quote")
	return MockQuote(symbol), nil
}

// BatchQuotes fans out one goroutine per symbol, waits for all of them to
// settle, and reports unresolvable symbols in Failed.
func (s *Service) BatchQuotes(ctx context.Context, symbols []string) BatchResult {
	quotes := make([]*Quote, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quotes[i], errs[i] = s.Quote(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	result := BatchResult{Quotes: make([]Quote, 0, len(symbols)), Failed: []string{}}
	for i := range symbols {
		if errs[i] != nil || quotes[i] == nil {
			result.Failed = append(result.Failed, NormalizeSymbol(symbols[i]))
			continue
		}
		result.Quotes = append(result.Quotes, *quotes[i])
	}
	return result
}

// History resolves a chart series through the fallback chain.
func (s *Service) History(ctx context.Context, symbol, rng string) (*HistorySeries, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}
	rng, _ = normalizeRange(rng)

	key := "history:" + symbol + ":" + rng
	var cached HistorySeries
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	if s.limiter.Allow() {
		series, err := s.yahoo.History(symbol, rng)
		if err == nil && len(series.Points) > 0 {
			_ = cache.SetJSON(ctx, s.store, key, series, s.cfg.CacheTTLQuote)
			return series, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		if err != nil {
			logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("yahoo history failed")
		}
	}

	if s.polygon.Enabled() {
		series, err := s.polygon.History(ctx, symbol, rng)
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, series, s.cfg.CacheTTLQuote)
			return series, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("polygon history failed")
	}

	logger.Log.Info().Str("symbol", symbol).Msg("serving mock history")
	return MockHistory(symbol, rng), nil
}

// Search looks up symbols by ticker or name.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}

	key := "search:" + strings.ToLower(query)
	var cached []SearchResult
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return cached, nil
	}

	if !s.limiter.Allow() {
		return nil, errors.New("upstream rate limit reached")
	}

	results, err := s.yahoo.Search(query)
	if err != nil {
		logger.Log.Warn().Err(err).Str("query", query).Msg("symbol search failed")
		return nil, err
	}

	_ = cache.SetJSON(ctx, s.store, key, results, s.cfg.CacheTTLSearch)
	return results, nil
}

// Profile resolves the company descriptor, mock on provider failure.
func (s *Service) Profile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	key := "profile:" + symbol
	var cached CompanyProfile
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	if s.fmp.Enabled() {
		profile, err := s.fmp.Profile(symbol)
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, profile, s.cfg.CacheTTLProfile)
			return profile, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("fmp profile failed")
	}

	logger.Log.Info().Str("symbol", symbol).Msg("serving mock profile")
	return MockProfile(symbol), nil
}

// Fundamentals resolves the metric registry input, mock on provider failure.
func (s *Service) Fundamentals(ctx context.Context, symbol string) (*metrics.Fundamentals, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	key := "fundamentals:" + symbol
	var cached metrics.Fundamentals
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return &cached, nil
	}

	if s.fmp.Enabled() {
		fund, err := s.fmp.Fundamentals(symbol)
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, fund, s.cfg.CacheTTLProfile)
			return fund, nil
		}
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, err
		}
		logger.Log.Warn().Err(err).Str("symbol", symbol).Msg("fmp fundamentals failed")
	}

	logger.Log.Info().Str("symbol", symbol).Msg("serving mock fundamentals")
	return MockFundamentals(symbol), nil
}

// Macro resolves the FRED dashboard bundle, mock on provider failure.
func (s *Service) Macro(ctx context.Context) ([]MacroSeries, error) {
	key := "macro"
	var cached []MacroSeries
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return cached, nil
	}

	if s.fred.Enabled() {
		bundle, err := s.fred.MacroBundle()
		if err == nil {
			_ = cache.SetJSON(ctx, s.store, key, bundle, s.cfg.CacheTTLMacro)
			return bundle, nil
		}
		logger.Log.Warn().Err(err).Msg("fred macro bundle failed")
	}

	logger.Log.Info().Msg("serving mock macro bundle")
	return MockMacro(), nil
}

// Movers ranks the tracked universe by day change.
func (s *Service) Movers(ctx context.Context) ([]Mover, []Mover, error) {
	type moversPayload struct {
		Gainers []Mover `json:"gainers"`
		Losers  []Mover `json:"losers"`
	}

	key := "movers"
	var cached moversPayload
	if cache.GetJSON(ctx, s.store, key, &cached) {
		return cached.Gainers, cached.Losers, nil
	}

	batch := s.BatchQuotes(ctx, moversUniverse)
	if len(batch.Quotes) == 0 {
		gainers, losers := MockMovers(moversUniverse)
		return gainers, losers, nil
	}

	var gainers, losers []Mover
	for _, q := range batch.Quotes {
		m := Mover{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		}
		if m.ChangePercent >= 0 {
			gainers = append(gainers, m)
		} else {
			losers = append(losers, m)
		}
	}
	sortMovers(gainers, losers)
	if len(gainers) > 5 {
		gainers = gainers[:5]
	}
	if len(losers) > 5 {
		losers = losers[:5]
	}

	_ = cache.SetJSON(ctx, s.store, key, moversPayload{Gainers: gainers, Losers: losers}, s.cfg.CacheTTLQuote)
	return gainers, losers, nil
}

func sortMovers(gainers, losers []Mover) {
	sort.Slice(gainers, func(i, j int) bool {
		return gainers[i].ChangePercent > gainers[j].ChangePercent
	})
	sort.Slice(losers, func(i, j int) bool {
		return losers[i].ChangePercent < losers[j].ChangePercent
	})
}
