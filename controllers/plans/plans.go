package plansController

import (
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// ListPlans serves the public pricing catalog.
func ListPlans(c *fiber.Ctx) error {
	db := database.Database.Db

	var plans []models.Plan
	if err := db.Where("is_active = ?", true).Order("sort_order ASC").Find(&plans).Error; err != nil {
		logger.Log.Error().Err(err).Msg("listing plans")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch plans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pricing plans.", plans)
}
