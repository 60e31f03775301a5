package authValidator

import (
	"regexp"
	"strings"

	"finboard/middleware"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate email format
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Name
		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		// Validate Email
		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		// Validate Password
		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}

		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// ChangePassword validator middleware
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["currentPassword"] = "Current password is required!"
		}

		if len(strings.TrimSpace(reqData.NewPassword)) < 8 {
			errors["newPassword"] = "New password must be at least 8 characters long!"
		}

		if reqData.CurrentPassword != "" && reqData.CurrentPassword == reqData.NewPassword {
			errors["newPassword"] = "New password must differ from the current one!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}

// LoginHistoryList validator middleware
func LoginHistoryList() fiber.Handler {
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

		c.Locals("validatedLoginHistory", reqData)
		return c.Next()
	}
}
