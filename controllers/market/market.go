package marketController

import (
	"errors"
	"strings"

	"finboard/logger"
	"finboard/marketdata"
	"finboard/metrics"
	"finboard/middleware"

	"github.com/gofiber/fiber/v2"
)

// Market is wired from main at boot.
var Market *marketdata.Service

const maxBatchSymbols = 25

func Quote(c *fiber.Ctx) error {
	symbol := marketdata.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbol is required!", nil)
	}

	quote, err := Market.Quote(c.Context(), symbol)
	if err != nil {
		if errors.Is(err, marketdata.ErrSymbolNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Symbol not found!", nil)
		}
		logger.Log.Error().Err(err).Str("symbol", symbol).Msg("fetching quote")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quote!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quote fetched successfully.", quote)
}

func BatchQuotes(c *fiber.Ctx) error {
	raw := c.Query("symbols")
	if strings.TrimSpace(raw) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbols parameter is required!", nil)
	}

	seen := make(map[string]bool)
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		symbol := marketdata.NormalizeSymbol(part)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	if len(symbols) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbols parameter is required!", nil)
	}
	if len(symbols) > maxBatchSymbols {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Too many symbols! Maximum is 25.", nil)
	}

	result := Market.BatchQuotes(c.Context(), symbols)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quotes fetched successfully.", result)
}

func Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Search query is required!", nil)
	}

	results, err := Market.Search(c.Context(), query)
	if err != nil {
		logger.Log.Error().Err(err).Str("query", query).Msg("symbol search")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Search is temporarily unavailable!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search results.", results)
}

func History(c *fiber.Ctx) error {
	symbol := marketdata.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbol is required!", nil)
	}

	rng := c.Query("range", "1mo")

	series, err := Market.History(c.Context(), symbol, rng)
	if err != nil {
		if errors.Is(err, marketdata.ErrSymbolNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Symbol not found!", nil)
		}
		logger.Log.Error().Err(err).Str("symbol", symbol).Msg("fetching history")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched successfully.", series)
}

func Profile(c *fiber.Ctx) error {
	symbol := marketdata.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbol is required!", nil)
	}

	profile, err := Market.Profile(c.Context(), symbol)
	if err != nil {
		logger.Log.Error().Err(err).Str("symbol", symbol).Msg("fetching profile")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch company profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Company profile.", profile)
}

func Metrics(c *fiber.Ctx) error {
	symbol := marketdata.NormalizeSymbol(c.Params("symbol"))
	if symbol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Symbol is required!", nil)
	}

	fundamentals, err := Market.Fundamentals(c.Context(), symbol)
	if err != nil {
		logger.Log.Error().Err(err).Str("symbol", symbol).Msg("fetching fundamentals")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch metrics!", nil)
	}

	results := metrics.Evaluate(*fundamentals)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Metrics evaluated.", fiber.Map{
		"symbol":  symbol,
		"metrics": results,
	})
}

func Macro(c *fiber.Ctx) error {
	series, err := Market.Macro(c.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("fetching macro series")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch macro data!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Macro series.", series)
}

func Movers(c *fiber.Ctx) error {
	gainers, losers, err := Market.Movers(c.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("fetching movers")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch movers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Market movers.", fiber.Map{
		"gainers": gainers,
		"losers":  losers,
	})
}
