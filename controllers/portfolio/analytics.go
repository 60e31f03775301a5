package portfolioController

import (
	"finboard/database"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

type holdingAnalytics struct {
	ID              uint    `json:"id"`
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	AvgCost         float64 `json:"avgCost"`
	Price           float64 `json:"price"`
	MarketValue     float64 `json:"marketValue"`
	CostBasis       float64 `json:"costBasis"`
	GainLoss        float64 `json:"gainLoss"`
	GainLossPercent float64 `json:"gainLossPercent"`
	Allocation      float64 `json:"allocation"`
	Stale           bool    `json:"stale"`
}

type sectorAllocation struct {
	Sector  string  `json:"sector"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// GetAnalytics values every holding at the live quote and reports gains,
// allocations and sector weights. Symbols whose quote fetch failed are
// valued at cost basis and flagged stale.
func GetAnalytics(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	db := database.Database.Db

	portfolio, err := findOwnedPortfolio(db, userId, portfolioId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	var holdings []models.Holding
	if err := db.Where("portfolio_id = ? AND is_deleted = ?", portfolioId, false).Find(&holdings).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch holdings!", nil)
	}

	if len(holdings) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio analytics.", fiber.Map{
			"portfolio": portfolio,
			"holdings":  []holdingAnalytics{},
			"totals": fiber.Map{
				"marketValue":     0,
				"costBasis":       0,
				"gainLoss":        0,
				"gainLossPercent": 0,
			},
			"topPerformer":     nil,
			"worstPerformer":   nil,
			"sectorAllocation": []sectorAllocation{},
		})
	}

	// Distinct symbols, one quote each
	seen := make(map[string]bool)
	var symbols []string
	for _, h := range holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}

	batch := Market.BatchQuotes(c.Context(), symbols)
	prices := make(map[string]float64, len(batch.Quotes))
	for _, q := range batch.Quotes {
		prices[q.Symbol] = q.Price
	}

	rows := make([]holdingAnalytics, 0, len(holdings))
	var totalValue, totalCost float64

	for _, h := range holdings {
		row := holdingAnalytics{
			ID:        h.ID,
			Symbol:    h.Symbol,
			Quantity:  h.Quantity,
			AvgCost:   h.AvgCost,
			CostBasis: h.Quantity * h.AvgCost,
		}

		if price, ok := prices[h.Symbol]; ok && price > 0 {
			row.Price = price
			row.MarketValue = h.Quantity * price
		} else {
			// Valued at cost when the quote is unavailable
			row.Price = h.AvgCost
			row.MarketValue = row.CostBasis
			row.Stale = true
		}

		row.GainLoss = row.MarketValue - row.CostBasis
		if row.CostBasis > 0 {
			row.GainLossPercent = row.GainLoss / row.CostBasis * 100
		}

		totalValue += row.MarketValue
		totalCost += row.CostBasis
		rows = append(rows, row)
	}

	// Allocation over summed market value
	if totalValue > 0 {
		for i := range rows {
			rows[i].Allocation = rows[i].MarketValue / totalValue * 100
		}
	}

	var top, worst *holdingAnalytics
	for i := range rows {
		if top == nil || rows[i].GainLossPercent > top.GainLossPercent {
			top = &rows[i]
		}
		if worst == nil || rows[i].GainLossPercent < worst.GainLossPercent {
			worst = &rows[i]
		}
	}

	totalGain := totalValue - totalCost
	var totalGainPercent float64
	if totalCost > 0 {
		totalGainPercent = totalGain / totalCost * 100
	}

	// Sector weights from the cached company profiles
	sectorValues := make(map[string]float64)
	for _, row := range rows {
		sector := "Unknown"
		if profile, err := Market.Profile(c.Context(), row.Symbol); err == nil && profile.Sector != "" {
			sector = profile.Sector
		}
		sectorValues[sector] += row.MarketValue
	}

	sectors := make([]sectorAllocation, 0, len(sectorValues))
	for sector, value := range sectorValues {
		entry := sectorAllocation{Sector: sector, Value: value}
		if totalValue > 0 {
			entry.Percent = value / totalValue * 100
		}
		sectors = append(sectors, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio analytics.", fiber.Map{
		"portfolio": portfolio,
		"holdings":  rows,
		"totals": fiber.Map{
			"marketValue":     totalValue,
			"costBasis":       totalCost,
			"gainLoss":        totalGain,
			"gainLossPercent": totalGainPercent,
		},
		"topPerformer":     top,
		"worstPerformer":   worst,
		"sectorAllocation": sectors,
		"failedSymbols":    batch.Failed,
	})
}
