package adminValidator

import (
	"strings"
	"time"

	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
)

// ListUsers validator middleware
func ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page    *int   `query:"page"`
			Limit   *int   `query:"limit"`
			Search  string `query:"search"`
			Plan    string `query:"plan"`
			Blocked *bool  `query:"blocked"`
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

		c.Locals("validatedListUsers", reqData)
		return c.Next()
	}
}

// AdjustCredits validator middleware, shared by grant and deduct
func AdjustCredits() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint   `json:"userId"`
			Amount int64  `json:"amount"`
			Reason string `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than zero!"
		}

		reqData.Reason = strings.TrimSpace(reqData.Reason)
		if len(reqData.Reason) < 3 {
			errors["reason"] = "Reason must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdjustCredits", reqData)
		return c.Next()
	}
}

// ChangePlan validator middleware
func ChangePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Plan string `json:"plan"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Plan = strings.ToLower(strings.TrimSpace(reqData.Plan))
		if reqData.Plan == "" {
			errors["plan"] = "Plan is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePlan", reqData)
		return c.Next()
	}
}

// ChangeRole validator middleware
func ChangeRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Role string `json:"role"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))
		if reqData.Role != "USER" && reqData.Role != "ADMIN" {
			errors["role"] = "Role must be USER or ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangeRole", reqData)
		return c.Next()
	}
}

// CreatePromo validator middleware
func CreatePromo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code           string     `json:"code"`
			Description    string     `json:"description"`
			Credits        int64      `json:"credits"`
			MaxRedemptions int        `json:"maxRedemptions"`
			ExpiresAt      *time.Time `json:"expiresAt"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Blank code gets auto-generated by the controller
		reqData.Code = utils.NormalizePromoCode(reqData.Code)
		if reqData.Code != "" && (len(reqData.Code) < 4 || len(reqData.Code) > 32) {
			errors["code"] = "Code must be between 4 and 32 characters!"
		}

		if reqData.Credits <= 0 {
			errors["credits"] = "Credits must be greater than zero!"
		}

		if reqData.MaxRedemptions < 0 {
			errors["maxRedemptions"] = "Max redemptions must not be negative!"
		}

		if reqData.ExpiresAt != nil && reqData.ExpiresAt.Before(time.Now()) {
			errors["expiresAt"] = "Expiry must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreatePromo", reqData)
		return c.Next()
	}
}

// UpdatePromo validator middleware
func UpdatePromo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Description    *string    `json:"description"`
			Credits        *int64     `json:"credits"`
			MaxRedemptions *int       `json:"maxRedemptions"`
			ExpiresAt      *time.Time `json:"expiresAt"`
			IsActive       *bool      `json:"isActive"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Description == nil && reqData.Credits == nil && reqData.MaxRedemptions == nil &&
			reqData.ExpiresAt == nil && reqData.IsActive == nil {
			errors["request"] = "Nothing to update!"
		}

		if reqData.Credits != nil && *reqData.Credits <= 0 {
			errors["credits"] = "Credits must be greater than zero!"
		}

		if reqData.MaxRedemptions != nil && *reqData.MaxRedemptions < 0 {
			errors["maxRedemptions"] = "Max redemptions must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdatePromo", reqData)
		return c.Next()
	}
}

// ListMessages validator middleware
func ListMessages() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `query:"page"`
			Limit  *int   `query:"limit"`
			Status string `query:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Status != "" {
			reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
			switch models.ContactMessageStatus(reqData.Status) {
			case models.MessageStatusNew, models.MessageStatusRead, models.MessageStatusReplied:
			default:
				errors["status"] = "Status must be NEW, READ or REPLIED!"
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

		c.Locals("validatedListMessages", reqData)
		return c.Next()
	}
}

// UpdateMessage validator middleware
func UpdateMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status    string `json:"status"`
			ReplyNote string `json:"replyNote"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		switch models.ContactMessageStatus(reqData.Status) {
		case models.MessageStatusNew, models.MessageStatusRead, models.MessageStatusReplied:
		default:
			errors["status"] = "Status must be NEW, READ or REPLIED!"
		}

		reqData.ReplyNote = strings.TrimSpace(reqData.ReplyNote)
		if models.ContactMessageStatus(reqData.Status) == models.MessageStatusReplied && reqData.ReplyNote == "" {
			errors["replyNote"] = "Reply note is required when marking as replied!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateMessage", reqData)
		return c.Next()
	}
}

// UpdateRateLimit validator middleware
func UpdateRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Scope     string `json:"scope"`
			PerMinute *int   `json:"perMinute"`
			Enabled   *bool  `json:"enabled"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Scope = strings.ToLower(strings.TrimSpace(reqData.Scope))
		if reqData.Scope == "" {
			errors["scope"] = "Scope is required!"
		}

		if reqData.PerMinute == nil && reqData.Enabled == nil {
			errors["request"] = "Nothing to update!"
		}

		if reqData.PerMinute != nil && *reqData.PerMinute < 0 {
			errors["perMinute"] = "Per-minute limit must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateRateLimit", reqData)
		return c.Next()
	}
}

// UserLedger validator middleware
func UserLedger() fiber.Handler {
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

		c.Locals("validatedUserLedger", reqData)
		return c.Next()
	}
}
