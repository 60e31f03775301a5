package adminController

import (
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func ListRateLimits(c *fiber.Ctx) error {
	db := database.Database.Db

	var rules []models.RateLimitRule
	if err := db.Order("scope ASC").Find(&rules).Error; err != nil {
		logger.Log.Error().Err(err).Msg("listing rate limit rules")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch rate limit rules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rate limit rules.", rules)
}

// UpdateRateLimit upserts a rule by scope. The limiter middleware picks the
// change up on its next refresh.
func UpdateRateLimit(c *fiber.Ctx) error {
	adminId, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpdateRateLimit").(*struct {
		Scope     string `json:"scope"`
		PerMinute *int   `json:"perMinute"`
		Enabled   *bool  `json:"enabled"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var rule models.RateLimitRule
	err := db.Where("scope = ?", reqData.Scope).First(&rule).Error
	if err != nil {
		rule = models.RateLimitRule{Scope: reqData.Scope, Enabled: true}
	}

	if reqData.PerMinute != nil {
		rule.PerMinute = *reqData.PerMinute
	}
	if reqData.Enabled != nil {
		rule.Enabled = *reqData.Enabled
	}
	rule.UpdatedBy = adminId

	if err := db.Save(&rule).Error; err != nil {
		logger.Log.Error().Err(err).Str("scope", reqData.Scope).Msg("saving rate limit rule")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rate limit rule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rate limit rule saved.", rule)
}
