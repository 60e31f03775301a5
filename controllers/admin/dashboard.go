package adminController

import (
	"finboard/database"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// DashboardStats serves the headline numbers for the admin overview page.
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db
	dayStart := now.BeginningOfDay()

	var totalUsers, newUsersToday int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("is_deleted = ? AND created_at >= ?", false, dayStart).Count(&newUsersToday)

	var analysesToday int64
	db.Model(&models.Analysis{}).Where("is_deleted = ? AND created_at >= ?", false, dayStart).Count(&analysesToday)

	var creditsConsumedToday int64
	db.Model(&models.CreditTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ? AND transaction_date >= ?", models.CreditTypeConsume, dayStart).
		Scan(&creditsConsumedToday)

	var openMessages int64
	db.Model(&models.ContactMessage{}).Where("is_deleted = ? AND status = ?", false, models.MessageStatusNew).Count(&openMessages)

	var activeAlerts int64
	db.Model(&models.Alert{}).Where("is_deleted = ? AND is_active = ?", false, true).Count(&activeAlerts)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard statistics.", fiber.Map{
		"totalUsers":           totalUsers,
		"newUsersToday":        newUsersToday,
		"analysesToday":        analysesToday,
		"creditsConsumedToday": creditsConsumedToday,
		"openMessages":         openMessages,
		"activeAlerts":         activeAlerts,
	})
}
