package portfolioValidator

import (
	"strings"

	"finboard/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreatePortfolio validator middleware
func CreatePortfolio() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name"`
			Currency string `json:"currency"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if len(reqData.Name) < 1 || len(reqData.Name) > 60 {
			errors["name"] = "Name must be between 1 and 60 characters!"
		}

		reqData.Currency = strings.ToUpper(strings.TrimSpace(reqData.Currency))
		if reqData.Currency == "" {
			reqData.Currency = "USD"
		}
		if len(reqData.Currency) != 3 {
			errors["currency"] = "Currency must be a 3-letter code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreatePortfolio", reqData)
		return c.Next()
	}
}

// UpdatePortfolio validator middleware
func UpdatePortfolio() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name      *string `json:"name"`
			IsDefault *bool   `json:"isDefault"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name == nil && reqData.IsDefault == nil {
			errors["request"] = "Nothing to update!"
		}

		if reqData.Name != nil {
			trimmed := strings.TrimSpace(*reqData.Name)
			if len(trimmed) < 1 || len(trimmed) > 60 {
				errors["name"] = "Name must be between 1 and 60 characters!"
			}
			reqData.Name = &trimmed
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdatePortfolio", reqData)
		return c.Next()
	}
}

// AddHolding validator middleware
func AddHolding() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Symbol   string  `json:"symbol"`
			Quantity float64 `json:"quantity"`
			AvgCost  float64 `json:"avgCost"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Symbol = strings.ToUpper(strings.TrimSpace(reqData.Symbol))
		if len(reqData.Symbol) < 1 || len(reqData.Symbol) > 12 {
			errors["symbol"] = "Symbol must be between 1 and 12 characters!"
		}

		if reqData.Quantity <= 0 {
			errors["quantity"] = "Quantity must be greater than zero!"
		}

		if reqData.AvgCost < 0 {
			errors["avgCost"] = "Cost must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddHolding", reqData)
		return c.Next()
	}
}

// UpdateHolding validator middleware
func UpdateHolding() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Quantity *float64 `json:"quantity"`
			AvgCost  *float64 `json:"avgCost"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Quantity == nil && reqData.AvgCost == nil {
			errors["request"] = "Nothing to update!"
		}

		if reqData.Quantity != nil && *reqData.Quantity <= 0 {
			errors["quantity"] = "Quantity must be greater than zero!"
		}

		if reqData.AvgCost != nil && *reqData.AvgCost < 0 {
			errors["avgCost"] = "Cost must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateHolding", reqData)
		return c.Next()
	}
}
