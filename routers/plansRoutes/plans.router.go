package plansRoutes

import (
	plansController "finboard/controllers/plans"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupPlansRoutes(app *fiber.App) {
	plansGroup := app.Group("/api/plans", middleware.RateLimit(models.RateLimitScopeAPI))

	plansGroup.Get("/", plansController.ListPlans)
}
