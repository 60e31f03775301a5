package marketRoutes

import (
	marketController "finboard/controllers/market"
	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

func SetupMarketRoutes(app *fiber.App) {
	marketGroup := app.Group("/api/market", middleware.RateLimit(models.RateLimitScopeAPI))

	marketGroup.Get("/quote/:symbol", marketController.Quote)
	marketGroup.Get("/quotes", marketController.BatchQuotes)
	marketGroup.Get("/search", marketController.Search)
	marketGroup.Get("/history/:symbol", marketController.History)
	marketGroup.Get("/profile/:symbol", marketController.Profile)
	marketGroup.Get("/metrics/:symbol", marketController.Metrics)
	marketGroup.Get("/macro", marketController.Macro)
	marketGroup.Get("/movers", marketController.Movers)
}
