package creditsRoutes

import (
	creditsController "finboard/controllers/credits"
	"finboard/middleware"
	"finboard/models"
	creditsValidator "finboard/validators/credits"

	"github.com/gofiber/fiber/v2"
)

func SetupCreditsRoutes(app *fiber.App) {
	creditsGroup := app.Group("/api/credits", middleware.RateLimit(models.RateLimitScopeAPI))

	creditsGroup.Get("/balance", middleware.JWTMiddleware, creditsController.GetBalance)
	creditsGroup.Get("/history", creditsValidator.CreditHistory(), middleware.JWTMiddleware, creditsController.CreditHistory)
	creditsGroup.Post("/redeem", creditsValidator.RedeemPromo(), middleware.JWTMiddleware, creditsController.RedeemPromo)
}
