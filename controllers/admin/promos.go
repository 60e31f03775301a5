package adminController

import (
	"time"

	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
)

func CreatePromo(c *fiber.Ctx) error {
	adminId, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCreatePromo").(*struct {
		Code           string     `json:"code"`
		Description    string     `json:"description"`
		Credits        int64      `json:"credits"`
		MaxRedemptions int        `json:"maxRedemptions"`
		ExpiresAt      *time.Time `json:"expiresAt"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	code := reqData.Code
	if code == "" {
		code = utils.GeneratePromoCode()
	}

	if err := db.Where("code = ?", code).First(&models.PromoCode{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Promo code already exists!", nil)
	}

	promo := models.PromoCode{
		Code:           code,
		Description:    reqData.Description,
		Credits:        reqData.Credits,
		MaxRedemptions: reqData.MaxRedemptions,
		ExpiresAt:      reqData.ExpiresAt,
		IsActive:       true,
		CreatedByID:    adminId,
	}

	if err := db.Create(&promo).Error; err != nil {
		logger.Log.Error().Err(err).Str("code", code).Msg("creating promo code")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create promo code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Promo code created successfully.", promo)
}

func ListPromos(c *fiber.Ctx) error {
	db := database.Database.Db

	var promos []models.PromoCode
	if err := db.Where("is_deleted = ?", false).Order("created_at DESC").Find(&promos).Error; err != nil {
		logger.Log.Error().Err(err).Msg("listing promo codes")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch promo codes!", nil)
	}

	type promoStats struct {
		models.PromoCode
		CreditsIssued int64 `json:"creditsIssued"`
	}

	response := make([]promoStats, 0, len(promos))
	for _, promo := range promos {
		var issued int64
		db.Model(&models.PromoRedemption{}).
			Select("COALESCE(SUM(credits), 0)").
			Where("promo_code_id = ?", promo.ID).
			Scan(&issued)
		response = append(response, promoStats{PromoCode: promo, CreditsIssued: issued})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo codes.", response)
}

func UpdatePromo(c *fiber.Ctx) error {
	promoId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid promo id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdatePromo").(*struct {
		Description    *string    `json:"description"`
		Credits        *int64     `json:"credits"`
		MaxRedemptions *int       `json:"maxRedemptions"`
		ExpiresAt      *time.Time `json:"expiresAt"`
		IsActive       *bool      `json:"isActive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var promo models.PromoCode
	if err := db.Where("id = ? AND is_deleted = ?", promoId, false).First(&promo).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Promo code not found!", nil)
	}

	if reqData.Description != nil {
		promo.Description = *reqData.Description
	}
	if reqData.Credits != nil {
		promo.Credits = *reqData.Credits
	}
	if reqData.MaxRedemptions != nil {
		promo.MaxRedemptions = *reqData.MaxRedemptions
	}
	if reqData.ExpiresAt != nil {
		promo.ExpiresAt = reqData.ExpiresAt
	}
	if reqData.IsActive != nil {
		promo.IsActive = *reqData.IsActive
	}

	if err := db.Save(&promo).Error; err != nil {
		logger.Log.Error().Err(err).Uint("promoId", promoId).Msg("updating promo code")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update promo code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code updated successfully.", promo)
}

func DeletePromo(c *fiber.Ctx) error {
	promoId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid promo id!", nil)
	}

	db := database.Database.Db

	var promo models.PromoCode
	if err := db.Where("id = ? AND is_deleted = ?", promoId, false).First(&promo).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Promo code not found!", nil)
	}

	promo.IsActive = false
	promo.IsDeleted = true
	if err := db.Save(&promo).Error; err != nil {
		logger.Log.Error().Err(err).Uint("promoId", promoId).Msg("deleting promo code")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete promo code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code deleted.", nil)
}
