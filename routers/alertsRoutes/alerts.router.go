package alertsRoutes

import (
	alertsController "finboard/controllers/alerts"
	"finboard/middleware"
	"finboard/models"
	alertsValidator "finboard/validators/alerts"

	"github.com/gofiber/fiber/v2"
)

func SetupAlertsRoutes(app *fiber.App) {
	alertsGroup := app.Group("/api/alerts", middleware.RateLimit(models.RateLimitScopeAPI))

	alertsGroup.Post("/", alertsValidator.CreateAlert(), middleware.JWTMiddleware, alertsController.CreateAlert)
	alertsGroup.Get("/", middleware.JWTMiddleware, alertsController.ListAlerts)
	alertsGroup.Put("/:id", alertsValidator.UpdateAlert(), middleware.JWTMiddleware, alertsController.UpdateAlert)
	alertsGroup.Delete("/:id", middleware.JWTMiddleware, alertsController.DeleteAlert)
}
