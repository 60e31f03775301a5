package portfolioRoutes

import (
	portfolioController "finboard/controllers/portfolio"
	"finboard/middleware"
	"finboard/models"
	portfolioValidator "finboard/validators/portfolio"

	"github.com/gofiber/fiber/v2"
)

func SetupPortfolioRoutes(app *fiber.App) {
	portfolioGroup := app.Group("/api/portfolio", middleware.RateLimit(models.RateLimitScopeAPI))

	portfolioGroup.Post("/", portfolioValidator.CreatePortfolio(), middleware.JWTMiddleware, portfolioController.CreatePortfolio)
	portfolioGroup.Get("/", middleware.JWTMiddleware, portfolioController.ListPortfolios)
	portfolioGroup.Get("/:id", middleware.JWTMiddleware, portfolioController.GetPortfolio)
	portfolioGroup.Put("/:id", portfolioValidator.UpdatePortfolio(), middleware.JWTMiddleware, portfolioController.UpdatePortfolio)
	portfolioGroup.Delete("/:id", middleware.JWTMiddleware, portfolioController.DeletePortfolio)

	portfolioGroup.Post("/:id/holdings", portfolioValidator.AddHolding(), middleware.JWTMiddleware, portfolioController.AddHolding)
	portfolioGroup.Put("/:id/holdings/:hid", portfolioValidator.UpdateHolding(), middleware.JWTMiddleware, portfolioController.UpdateHolding)
	portfolioGroup.Delete("/:id/holdings/:hid", middleware.JWTMiddleware, portfolioController.DeleteHolding)

	portfolioGroup.Get("/:id/analytics", middleware.JWTMiddleware, portfolioController.GetAnalytics)
}
