package contactValidator

import (
	"strings"

	"finboard/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitMessage validator middleware
func SubmitMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name    string `json:"name" validate:"required,min=2,max=80"`
			Email   string `json:"email" validate:"required,email"`
			Subject string `json:"subject" validate:"required,min=2,max=120"`
			Message string `json:"message" validate:"required,min=10,max=5000"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Subject = strings.TrimSpace(reqData.Subject)
		reqData.Message = strings.TrimSpace(reqData.Message)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContact", reqData)
		return c.Next()
	}
}
