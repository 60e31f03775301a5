package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"finboard/config"
	"finboard/database"
	"finboard/models"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth guards the admin sub-app. It accepts either HTTP Basic Auth
// against the ADMIN_BASIC_USER/ADMIN_BASIC_PASS env pair, or a Bearer token
// belonging to an ADMIN user. Basic requests get userId 0 in context.
func AdminAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")

	if strings.HasPrefix(authHeader, "Basic ") {
		if checkBasicCredentials(authHeader[len("Basic "):]) {
			c.Locals("userId", uint(0))
			c.Locals("role", "ADMIN")
			return c.Next()
		}
		c.Set("WWW-Authenticate", `Basic realm="finboard admin"`)
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid admin credentials", nil)
	}

	// Fall through to JWT + role check
	if err := JWTMiddleware(c); err != nil {
		return err
	}
	return nil
}

// AdminOnly requires the authenticated user to hold the ADMIN role. It runs
// after AdminAuth so Basic-authenticated requests (userId 0) pass through.
func AdminOnly(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if userId == 0 {
		// Authenticated via the Basic env pair
		return c.Next()
	}

	var user models.User
	if err := database.Database.Db.
		Where("id = ? AND is_deleted = false AND role = ?", userId, "ADMIN").
		First(&user).Error; err != nil {
		return JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	return c.Next()
}

func checkBasicCredentials(encoded string) bool {
	cfg := config.AppConfig
	if cfg.AdminBasicUser == "" || cfg.AdminBasicPass == "" {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return false
	}

	userOk := subtle.ConstantTimeCompare([]byte(parts[0]), []byte(cfg.AdminBasicUser)) == 1
	passOk := subtle.ConstantTimeCompare([]byte(parts[1]), []byte(cfg.AdminBasicPass)) == 1
	return userOk && passOk
}
