package creditsValidator

import (
	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
)

// RedeemPromo validator middleware
func RedeemPromo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code string `json:"code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Code = utils.NormalizePromoCode(reqData.Code)
		if reqData.Code == "" {
			errors["code"] = "Promo code is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRedeemPromo", reqData)
		return c.Next()
	}
}

// CreditHistory validator middleware
func CreditHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int   `query:"page"`
			Limit *int   `query:"limit"`
			Type  string `query:"type"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Type != "" {
			switch models.CreditTransactionType(reqData.Type) {
			case models.CreditTypeSignupGrant, models.CreditTypeMonthlyGrant, models.CreditTypeConsume,
				models.CreditTypeRefund, models.CreditTypePromoBonus, models.CreditTypeAdminCredit,
				models.CreditTypeAdminDebit:
			default:
				errors["type"] = "Unknown transaction type!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Page == nil || *reqData.Page < 1 {
			one := 1
			reqData.Page = &one
		}
		if reqData.Limit == nil || *reqData.Limit < 1 || *reqData.Limit > 100 {
			twenty := 20
			reqData.Limit = &twenty
		}

		c.Locals("validatedCreditHistory", reqData)
		return c.Next()
	}
}
