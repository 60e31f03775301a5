package authRoutes

import (
	authController "finboard/controllers/auth"
	"finboard/middleware"
	"finboard/models"
	authValidator "finboard/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth", middleware.RateLimit(models.RateLimitScopeAPI))

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Me)
	authGroup.Put("/password", authValidator.ChangePassword(), middleware.JWTMiddleware, authController.ChangePassword)
	authGroup.Get("/login/history", authValidator.LoginHistoryList(), middleware.JWTMiddleware, authController.LoginHistoryList)
}
