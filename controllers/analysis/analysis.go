package analysisController

import (
	"context"
	"errors"
	"time"

	"finboard/ai"
	"finboard/credits"
	"finboard/database"
	"finboard/logger"
	"finboard/marketdata"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// Analyzer is wired from main at boot.
var Analyzer *ai.Analyzer

// llmTimeout bounds one completion round trip.
const llmTimeout = 30 * time.Second

func AnalyzeSymbol(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAnalyze").(*struct {
		Symbol string `json:"symbol"`
		Kind   string `json:"kind"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ctx, cancel := context.WithTimeout(c.Context(), llmTimeout)
	defer cancel()

	analysis, err := Analyzer.Analyze(ctx, userId, reqData.Symbol, reqData.Kind)
	if err != nil {
		switch {
		case errors.Is(err, credits.ErrInsufficientCredits):
			return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "Insufficient credits!", fiber.Map{
				"required": Analyzer.Cost(),
			})
		case errors.Is(err, marketdata.ErrSymbolNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Symbol not found!", nil)
		case errors.Is(err, ai.ErrUnknownKind):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown analysis kind!", nil)
		case errors.Is(err, ai.ErrAnalysisFailed):
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Analysis provider failed. Credits were refunded.", nil)
		}
		logger.Log.Error().Err(err).Str("symbol", reqData.Symbol).Msg("running analysis")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to run analysis!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analysis complete.", analysis)
}

func AnalysisHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAnalysisHistory").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	db := database.Database.Db

	var analyses []models.Analysis
	var total int64

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&analyses).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("fetching analysis history")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analysis history!", nil)
	}

	db.Model(&models.Analysis{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	response := map[string]interface{}{
		"analyses": analyses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analysis history.", response)
}
