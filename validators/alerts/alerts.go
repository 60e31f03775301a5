package alertsValidator

import (
	"strings"

	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// CreateAlert validator middleware
func CreateAlert() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Symbol    string  `json:"symbol" validate:"required,min=1,max=12"`
			Condition string  `json:"condition" validate:"required,oneof=ABOVE BELOW"`
			Threshold float64 `json:"threshold" validate:"required,gt=0"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Symbol = strings.ToUpper(strings.TrimSpace(reqData.Symbol))
		reqData.Condition = strings.ToUpper(strings.TrimSpace(reqData.Condition))

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateAlert", reqData)
		return c.Next()
	}
}

// UpdateAlert validator middleware
func UpdateAlert() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Condition *string  `json:"condition"`
			Threshold *float64 `json:"threshold"`
			IsActive  *bool    `json:"isActive"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Condition == nil && reqData.Threshold == nil && reqData.IsActive == nil {
			errors["request"] = "Nothing to update!"
		}

		if reqData.Condition != nil {
			upper := strings.ToUpper(strings.TrimSpace(*reqData.Condition))
			switch models.AlertCondition(upper) {
			case models.AlertConditionAbove, models.AlertConditionBelow:
				reqData.Condition = &upper
			default:
				errors["condition"] = "Condition must be ABOVE or BELOW!"
			}
		}

		if reqData.Threshold != nil && *reqData.Threshold <= 0 {
			errors["threshold"] = "Threshold must be greater than zero!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateAlert", reqData)
		return c.Next()
	}
}
