package adminController

import (
	"strconv"
	"strings"

	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a numeric route param.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func ListUsers(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedListUsers").(*struct {
		Page    *int   `query:"page"`
		Limit   *int   `query:"limit"`
		Search  string `query:"search"`
		Plan    string `query:"plan"`
		Blocked *bool  `query:"blocked"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	offset := (*reqData.Page - 1) * (*reqData.Limit)

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)

	if reqData.Search != "" {
		// LOWER() LIKE keeps the search portable across postgres and sqlite
		search := "%" + strings.ToLower(strings.TrimSpace(reqData.Search)) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", search, search)
	}
	if reqData.Plan != "" {
		query = query.Where("plan = ?", reqData.Plan)
	}
	if reqData.Blocked != nil {
		query = query.Where("is_blocked = ?", *reqData.Blocked)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&users).Error; err != nil {
		logger.Log.Error().Err(err).Msg("listing users")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	})
}

func GetUser(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	user.Password = ""

	var portfolios, alerts, analyses int64
	db.Model(&models.Portfolio{}).Where("user_id = ? AND is_deleted = ?", targetId, false).Count(&portfolios)
	db.Model(&models.Alert{}).Where("user_id = ? AND is_active = ? AND is_deleted = ?", targetId, true, false).Count(&alerts)
	db.Model(&models.Analysis{}).Where("user_id = ? AND is_deleted = ?", targetId, false).Count(&analyses)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User detail.", fiber.Map{
		"user": user,
		"counts": fiber.Map{
			"portfolios":   portfolios,
			"activeAlerts": alerts,
			"analyses":     analyses,
		},
	})
}

func BlockUser(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot be blocked!", nil)
	}

	user.IsBlocked = true
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", targetId).Msg("blocking user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to block user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User blocked.", nil)
}

func UnblockUser(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsBlocked = false
	user.BlockedUntil = nil
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", targetId).Msg("unblocking user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unblock user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unblocked.", nil)
}

func ChangePlan(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedChangePlan").(*struct {
		Plan string `json:"plan"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var plan models.Plan
	if err := db.Where("key = ? AND is_active = ?", reqData.Plan, true).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown plan!", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Plan = plan.Key
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", targetId).Msg("changing plan")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan updated.", fiber.Map{
		"userId": user.ID,
		"plan":   user.Plan,
	})
}

func ChangeRole(c *fiber.Ctx) error {
	targetId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedChangeRole").(*struct {
		Role string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Role = reqData.Role
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", targetId).Msg("changing role")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated.", fiber.Map{
		"userId": user.ID,
		"role":   user.Role,
	})
}
