package analysisValidator

import (
	"strings"

	"finboard/middleware"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeSymbol validator middleware
func AnalyzeSymbol() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Symbol string `json:"symbol"`
			Kind   string `json:"kind"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Symbol = strings.ToUpper(strings.TrimSpace(reqData.Symbol))
		if len(reqData.Symbol) < 1 || len(reqData.Symbol) > 12 {
			errors["symbol"] = "Symbol must be between 1 and 12 characters!"
		}

		if reqData.Kind == "" {
			reqData.Kind = models.AnalysisKindSummary
		}
		switch reqData.Kind {
		case models.AnalysisKindSummary, models.AnalysisKindBullBear, models.AnalysisKindRisks:
		default:
			errors["kind"] = "Kind must be one of summary, bull_bear or risks!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnalyze", reqData)
		return c.Next()
	}
}

// AnalysisHistory validator middleware
func AnalysisHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page == nil || *reqData.Page < 1 {
			one := 1
			reqData.Page = &one
		}
		if reqData.Limit == nil || *reqData.Limit < 1 || *reqData.Limit > 100 {
			twenty := 20
			reqData.Limit = &twenty
		}

		c.Locals("validatedAnalysisHistory", reqData)
		return c.Next()
	}
}
