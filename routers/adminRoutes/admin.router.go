package adminRoutes

import (
	adminController "finboard/controllers/admin"
	"finboard/middleware"
	"finboard/models"
	adminValidator "finboard/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.RateLimit(models.RateLimitScopeAPI), middleware.AdminAuth, middleware.AdminOnly)

	// Users
	adminGroup.Get("/users", adminValidator.ListUsers(), adminController.ListUsers)
	adminGroup.Get("/users/:id", adminController.GetUser)
	adminGroup.Patch("/users/:id/block", adminController.BlockUser)
	adminGroup.Patch("/users/:id/unblock", adminController.UnblockUser)
	adminGroup.Patch("/users/:id/plan", adminValidator.ChangePlan(), adminController.ChangePlan)
	adminGroup.Patch("/users/:id/role", adminValidator.ChangeRole(), adminController.ChangeRole)
	adminGroup.Get("/users/:id/credits", adminValidator.UserLedger(), adminController.UserLedger)

	// Credits
	adminGroup.Post("/credits/grant", adminValidator.AdjustCredits(), adminController.GrantCredits)
	adminGroup.Post("/credits/deduct", adminValidator.AdjustCredits(), adminController.DeductCredits)
	adminGroup.Get("/credits/stats", adminController.CreditStats)

	// Promo codes
	adminGroup.Post("/promos", adminValidator.CreatePromo(), adminController.CreatePromo)
	adminGroup.Get("/promos", adminController.ListPromos)
	adminGroup.Patch("/promos/:id", adminValidator.UpdatePromo(), adminController.UpdatePromo)
	adminGroup.Delete("/promos/:id", adminController.DeletePromo)

	// Contact messages
	adminGroup.Get("/messages", adminValidator.ListMessages(), adminController.ListMessages)
	adminGroup.Patch("/messages/:id", adminValidator.UpdateMessage(), adminController.UpdateMessage)
	adminGroup.Delete("/messages/:id", adminController.DeleteMessage)

	// Rate limits
	adminGroup.Get("/ratelimits", adminController.ListRateLimits)
	adminGroup.Put("/ratelimits", adminValidator.UpdateRateLimit(), adminController.UpdateRateLimit)

	// Dashboard
	adminGroup.Get("/stats", adminController.DashboardStats)
}
