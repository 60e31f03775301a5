package analysisRoutes

import (
	analysisController "finboard/controllers/analysis"
	"finboard/middleware"
	"finboard/models"
	analysisValidator "finboard/validators/analysis"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalysisRoutes(app *fiber.App) {
	analysisGroup := app.Group("/api/analysis")

	analysisGroup.Post("/symbol", middleware.RateLimit(models.RateLimitScopeAnalysis), analysisValidator.AnalyzeSymbol(), middleware.JWTMiddleware, analysisController.AnalyzeSymbol)
	analysisGroup.Get("/history", middleware.RateLimit(models.RateLimitScopeAPI), analysisValidator.AnalysisHistory(), middleware.JWTMiddleware, analysisController.AnalysisHistory)
}
