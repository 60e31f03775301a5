package portfolioController

import (
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func AddHolding(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	reqData, ok := c.Locals("validatedAddHolding").(*struct {
		Symbol   string  `json:"symbol"`
		Quantity float64 `json:"quantity"`
		AvgCost  float64 `json:"avgCost"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedPortfolio(db, userId, portfolioId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	// Adding an existing symbol merges into a weighted average cost
	var existing models.Holding
	err := db.Where("portfolio_id = ? AND symbol = ? AND is_deleted = ?", portfolioId, reqData.Symbol, false).
		First(&existing).Error
	if err == nil {
		totalQty := existing.Quantity + reqData.Quantity
		existing.AvgCost = (existing.Quantity*existing.AvgCost + reqData.Quantity*reqData.AvgCost) / totalQty
		existing.Quantity = totalQty

		if err := db.Save(&existing).Error; err != nil {
			logger.Log.Error().Err(err).Uint("holdingId", existing.ID).Msg("merging holding")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add holding!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Holding merged successfully.", existing)
	}

	holding := models.Holding{
		PortfolioID: portfolioId,
		Symbol:      reqData.Symbol,
		Quantity:    reqData.Quantity,
		AvgCost:     reqData.AvgCost,
	}

	if err := db.Create(&holding).Error; err != nil {
		logger.Log.Error().Err(err).Uint("portfolioId", portfolioId).Msg("creating holding")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add holding!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Holding added successfully.", holding)
}

func UpdateHolding(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	holdingId, ok := parseID(c, "hid")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid holding id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateHolding").(*struct {
		Quantity *float64 `json:"quantity"`
		AvgCost  *float64 `json:"avgCost"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedPortfolio(db, userId, portfolioId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	var holding models.Holding
	if err := db.Where("id = ? AND portfolio_id = ? AND is_deleted = ?", holdingId, portfolioId, false).
		First(&holding).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Holding not found!", nil)
	}

	if reqData.Quantity != nil {
		holding.Quantity = *reqData.Quantity
	}
	if reqData.AvgCost != nil {
		holding.AvgCost = *reqData.AvgCost
	}

	if err := db.Save(&holding).Error; err != nil {
		logger.Log.Error().Err(err).Uint("holdingId", holdingId).Msg("updating holding")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update holding!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Holding updated successfully.", holding)
}

func DeleteHolding(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	holdingId, ok := parseID(c, "hid")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid holding id!", nil)
	}

	db := database.Database.Db

	if _, err := findOwnedPortfolio(db, userId, portfolioId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	var holding models.Holding
	if err := db.Where("id = ? AND portfolio_id = ? AND is_deleted = ?", holdingId, portfolioId, false).
		First(&holding).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Holding not found!", nil)
	}

	holding.IsDeleted = true
	if err := db.Save(&holding).Error; err != nil {
		logger.Log.Error().Err(err).Uint("holdingId", holdingId).Msg("deleting holding")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete holding!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Holding deleted successfully.", nil)
}
