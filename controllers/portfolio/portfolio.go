package portfolioController

import (
	"strconv"

	"finboard/database"
	"finboard/logger"
	"finboard/marketdata"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Market is wired from main at boot; analytics values holdings through it.
var Market *marketdata.Service

// parseID reads a numeric route param.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// findOwnedPortfolio loads a portfolio only when it belongs to the caller.
// Rows owned by other users read as not found.
func findOwnedPortfolio(db *gorm.DB, userId, portfolioId uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", portfolioId, userId, false).First(&portfolio).Error
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func CreatePortfolio(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreatePortfolio").(*struct {
		Name     string `json:"name"`
		Currency string `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	// Per-plan portfolio cap
	var plan models.Plan
	if err := db.Where("key = ? AND is_active = true", user.Plan).First(&plan).Error; err == nil && plan.MaxPortfolios > 0 {
		var count int64
		db.Model(&models.Portfolio{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&count)
		if count >= int64(plan.MaxPortfolios) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Portfolio limit reached for your plan!", nil)
		}
	}

	var existing int64
	db.Model(&models.Portfolio{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&existing)

	portfolio := models.Portfolio{
		UserID:    userId,
		Name:      reqData.Name,
		Currency:  reqData.Currency,
		IsDefault: existing == 0,
	}

	if err := db.Create(&portfolio).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("creating portfolio")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create portfolio!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Portfolio created successfully.", portfolio)
}

func ListPortfolios(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var portfolios []models.Portfolio
	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("is_default DESC, created_at ASC").
		Find(&portfolios).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("listing portfolios")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch portfolios!", nil)
	}

	type portfolioSummary struct {
		models.Portfolio
		HoldingCount int64 `json:"holdingCount"`
	}

	response := make([]portfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		var holdings int64
		db.Model(&models.Holding{}).Where("portfolio_id = ? AND is_deleted = ?", p.ID, false).Count(&holdings)
		response = append(response, portfolioSummary{Portfolio: p, HoldingCount: holdings})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolios fetched successfully.", response)
}

func GetPortfolio(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	db := database.Database.Db

	var portfolio models.Portfolio
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", portfolioId, userId, false).
		Preload("Holdings", "is_deleted = ?", false).
		First(&portfolio).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio fetched successfully.", portfolio)
}

func UpdatePortfolio(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	portfolioId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdatePortfolio").(*struct {
		Name      *string `json:"name"`
		IsDefault *bool   `json:"isDefault"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	portfolio, err := findOwnedPortfolio(db, userId, portfolioId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	if reqData.Name != nil {
		portfolio.Name = *reqData.Name
	}

	if reqData.IsDefault != nil && *reqData.IsDefault && !portfolio.IsDefault {
		// Only one default per user
		if err := db.Model(&models.Portfolio{}).
			Where("user_id = ? AND is_deleted = ?", userId, false).
			Update("is_default", false).Error; err != nil {
			logger.Log.Error().Err(err).Uint("userId", userId).Msg("clearing default portfolio")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update portfolio!", nil)
		}
		portfolio.IsDefault = true
	}

	if err := db.Save(portfolio).Error; err != nil {
		logger.Log.Error().Err(err).Uint("portfolioId", portfolioId).Msg("updating portfolio")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update portfolio!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio updated successfully.", portfolio)
}

func DeletePortfolio(c *fiber.Ctx) error {
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

	portfolio.IsDeleted = true
	portfolio.IsDefault = false
	if err := db.Save(portfolio).Error; err != nil {
		logger.Log.Error().Err(err).Uint("portfolioId", portfolioId).Msg("deleting portfolio")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete portfolio!", nil)
	}

	// Holdings go with the portfolio
	if err := db.Model(&models.Holding{}).
		Where("portfolio_id = ?", portfolioId).
		Update("is_deleted", true).Error; err != nil {
		logger.Log.Error().Err(err).Uint("portfolioId", portfolioId).Msg("deleting holdings")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio deleted successfully.", nil)
}
