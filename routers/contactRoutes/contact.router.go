package contactRoutes

import (
	contactController "finboard/controllers/contact"
	"finboard/middleware"
	"finboard/models"
	contactValidator "finboard/validators/contact"

	"github.com/gofiber/fiber/v2"
)

func SetupContactRoutes(app *fiber.App) {
	contactGroup := app.Group("/api/contact", middleware.RateLimit(models.RateLimitScopeContact))

	contactGroup.Post("/", contactValidator.SubmitMessage(), contactController.SubmitMessage)
}
