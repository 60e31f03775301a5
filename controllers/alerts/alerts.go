package alertsController

import (
	"strconv"

	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func CreateAlert(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateAlert").(*struct {
		Symbol    string  `json:"symbol" validate:"required,min=1,max=12"`
		Condition string  `json:"condition" validate:"required,oneof=ABOVE BELOW"`
		Threshold float64 `json:"threshold" validate:"required,gt=0"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	// Per-plan active alert cap
	var plan models.Plan
	if err := db.Where("key = ? AND is_active = true", user.Plan).First(&plan).Error; err == nil && plan.MaxAlerts > 0 {
		var active int64
		db.Model(&models.Alert{}).Where("user_id = ? AND is_active = ? AND is_deleted = ?", userId, true, false).Count(&active)
		if active >= int64(plan.MaxAlerts) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Alert limit reached for your plan!", nil)
		}
	}

	alert := models.Alert{
		UserID:    userId,
		Symbol:    reqData.Symbol,
		Condition: models.AlertCondition(reqData.Condition),
		Threshold: reqData.Threshold,
		IsActive:  true,
	}

	if err := db.Create(&alert).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("creating alert")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create alert!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Alert created successfully.", alert)
}

func ListAlerts(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var alerts []models.Alert
	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("is_active DESC, created_at DESC").
		Find(&alerts).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("listing alerts")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch alerts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Alerts fetched successfully.", alerts)
}

func UpdateAlert(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	alertId, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || alertId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid alert id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateAlert").(*struct {
		Condition *string  `json:"condition"`
		Threshold *float64 `json:"threshold"`
		IsActive  *bool    `json:"isActive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var alert models.Alert
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", alertId, userId, false).First(&alert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Alert not found!", nil)
	}

	if reqData.Condition != nil {
		alert.Condition = models.AlertCondition(*reqData.Condition)
	}
	if reqData.Threshold != nil {
		alert.Threshold = *reqData.Threshold
	}
	if reqData.IsActive != nil {
		alert.IsActive = *reqData.IsActive
		// Re-arming clears the previous trigger
		if alert.IsActive {
			alert.TriggeredAt = nil
			alert.TriggeredPrice = 0
			alert.NotifiedAt = nil
		}
	}

	if err := db.Save(&alert).Error; err != nil {
		logger.Log.Error().Err(err).Uint("alertId", alert.ID).Msg("updating alert")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update alert!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Alert updated successfully.", alert)
}

func DeleteAlert(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	alertId, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || alertId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid alert id!", nil)
	}

	db := database.Database.Db

	var alert models.Alert
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", alertId, userId, false).First(&alert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Alert not found!", nil)
	}

	alert.IsActive = false
	alert.IsDeleted = true
	if err := db.Save(&alert).Error; err != nil {
		logger.Log.Error().Err(err).Uint("alertId", alert.ID).Msg("deleting alert")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete alert!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Alert deleted successfully.", nil)
}
