package adminController

import (
	"errors"

	"finboard/credits"
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

type adjustRequest = struct {
	UserID uint   `json:"userId"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func GrantCredits(c *fiber.Ctx) error {
	adminId, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedAdjustCredits").(*adjustRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	transaction, err := credits.Grant(database.Database.Db, reqData.UserID, reqData.Amount, models.CreditTypeAdminCredit, credits.Entry{
		Description:   "Admin credit: " + reqData.Reason,
		ReferenceType: "admin",
		AdminID:       adminId,
		Reason:        reqData.Reason,
	})
	if err != nil {
		if errors.Is(err, credits.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		logger.Log.Error().Err(err).Uint("userId", reqData.UserID).Msg("admin credit grant")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant credits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credits granted successfully.", fiber.Map{
		"transactionId": transaction.ID,
		"userId":        reqData.UserID,
		"amount":        reqData.Amount,
		"balance":       transaction.BalanceAfter,
	})
}

func DeductCredits(c *fiber.Ctx) error {
	adminId, _ := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedAdjustCredits").(*adjustRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	transaction, err := credits.Deduct(database.Database.Db, reqData.UserID, reqData.Amount, credits.Entry{
		Description:   "Admin debit: " + reqData.Reason,
		ReferenceType: "admin",
		AdminID:       adminId,
		Reason:        reqData.Reason,
	})
	if err != nil {
		if errors.Is(err, credits.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		if errors.Is(err, credits.ErrInsufficientCredits) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User balance is too low for this deduction!", nil)
		}
		logger.Log.Error().Err(err).Uint("userId", reqData.UserID).Msg("admin credit deduction")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deduct credits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credits deducted successfully.", fiber.Map{
		"transactionId": transaction.ID,
		"userId":        reqData.UserID,
		"amount":        reqData.Amount,
		"balance":       transaction.BalanceAfter,
	})
}

func UserLedger(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedUserLedger").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	var transactions []models.CreditTransaction
	var total int64

	db.Model(&models.CreditTransaction{}).Where("user_id = ?", targetId).Count(&total)

	if err := db.Where("user_id = ?", targetId).
		Order("transaction_date DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&transactions).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", targetId).Msg("fetching user ledger")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ledger!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User credit ledger.", fiber.Map{
		"balance":      user.CreditBalance,
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	})
}

// CreditStats aggregates the ledger for the admin dashboard.
func CreditStats(c *fiber.Ctx) error {
	db := database.Database.Db

	grantTypes := []models.CreditTransactionType{
		models.CreditTypeSignupGrant,
		models.CreditTypeMonthlyGrant,
		models.CreditTypePromoBonus,
		models.CreditTypeAdminCredit,
	}

	var totalGranted, totalConsumed, totalRefunded, todayConsumed int64

	db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type IN ?", grantTypes).
		Scan(&totalGranted)

	db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ?", models.CreditTypeConsume).
		Scan(&totalConsumed)

	db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ?", models.CreditTypeRefund).
		Scan(&totalRefunded)

	db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ? AND transaction_date >= ?", models.CreditTypeConsume, now.BeginningOfDay()).
		Scan(&todayConsumed)

	var outstanding int64
	db.Model(&models.User{}).
		Select("COALESCE(SUM(credit_balance), 0)").
		Where("is_deleted = ?", false).
		Scan(&outstanding)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credit statistics.", fiber.Map{
		"totalGranted":  totalGranted,
		"totalConsumed": totalConsumed,
		"totalRefunded": totalRefunded,
		"todayConsumed": todayConsumed,
		"outstanding":   outstanding,
	})
}
