package creditsController

import (
	"time"

	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func GetBalance(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	response := fiber.Map{
		"balance": user.CreditBalance,
		"plan":    user.Plan,
	}

	var plan models.Plan
	if err := db.Where("key = ? AND is_active = ?", user.Plan, true).First(&plan).Error; err == nil {
		response["monthlyAllowance"] = plan.MonthlyCredits
		response["planName"] = plan.Name
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credit balance.", response)
}

func CreditHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreditHistory").(*struct {
		Page  *int   `query:"page"`
		Limit *int   `query:"limit"`
		Type  string `query:"type"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	db := database.Database.Db

	query := db.Model(&models.CreditTransaction{}).Where("user_id = ?", userId)
	if reqData.Type != "" {
		query = query.Where("transaction_type = ?", reqData.Type)
	}

	var total int64
	query.Count(&total)

	var transactions []models.CreditTransaction
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&transactions).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("fetching credit history")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch credit history!", nil)
	}

	response := map[string]interface{}{
		"transactions": transactions,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credit history.", response)
}

// RedeemPromo grants a promo bonus once per user per code. The redemption
// row, the ledger row, the balance update and the redemption counter all
// commit in one transaction; the unique index on (promo, user) catches
// concurrent double redemption.
func RedeemPromo(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedRedeemPromo").(*struct {
		Code string `json:"code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	tx := database.Database.Db.Begin()
	if tx.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem promo code!", nil)
	}

	var promo models.PromoCode
	if err := tx.Where("code = ? AND is_deleted = ?", reqData.Code, false).First(&promo).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid promo code!", nil)
	}

	if !promo.IsActive {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This promo code is no longer active!", nil)
	}

	if promo.ExpiresAt != nil && promo.ExpiresAt.Before(time.Now()) {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This promo code has expired!", nil)
	}

	if promo.MaxRedemptions > 0 && promo.RedemptionCount >= promo.MaxRedemptions {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This promo code has been fully redeemed!", nil)
	}

	var redeemed int64
	tx.Model(&models.PromoRedemption{}).Where("promo_code_id = ? AND user_id = ?", promo.ID, userId).Count(&redeemed)
	if redeemed > 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already redeemed this code!", nil)
	}

	var user models.User
	if err := tx.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	redemption := models.PromoRedemption{
		PromoCodeID: promo.ID,
		UserID:      userId,
		Credits:     promo.Credits,
	}
	if err := tx.Create(&redemption).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already redeemed this code!", nil)
	}

	balanceBefore := user.CreditBalance
	balanceAfter := balanceBefore + promo.Credits

	transaction := models.CreditTransaction{
		UserID:          userId,
		TransactionType: models.CreditTypePromoBonus,
		Amount:          promo.Credits,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Description:     "Promo code " + promo.Code + " redeemed",
		ReferenceType:   "promo",
		ReferenceID:     promo.Code,
		TransactionDate: time.Now(),
	}
	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("writing promo ledger row")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem promo code!", nil)
	}

	user.CreditBalance = balanceAfter
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("updating balance")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem promo code!", nil)
	}

	promo.RedemptionCount++
	if err := tx.Save(&promo).Error; err != nil {
		tx.Rollback()
		logger.Log.Error().Err(err).Uint("promoId", promo.ID).Msg("updating redemption count")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem promo code!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to redeem promo code!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Promo code redeemed successfully.", fiber.Map{
		"creditsGranted": promo.Credits,
		"balance":        balanceAfter,
	})
}
