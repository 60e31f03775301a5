package authController

import (
	"time"

	"finboard/config"
	"finboard/credits"
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error().Err(err).Msg("hashing password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		logger.Log.Error().Err(err).Msg("saving user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Seed the welcome credit grant. Signup still succeeds if the grant
	// fails; the balance just starts at zero.
	if config.AppConfig.SignupCredits > 0 {
		_, err := credits.Grant(db, newUser.ID, int64(config.AppConfig.SignupCredits), models.CreditTypeSignupGrant, credits.Entry{
			Description:   "Welcome signup grant",
			ReferenceType: "signup",
		})
		if err != nil {
			logger.Log.Error().Err(err).Uint("userId", newUser.ID).Msg("signup credit grant")
		} else {
			newUser.CreditBalance = int64(config.AppConfig.SignupCredits)
		}
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name, config.AppConfig.SignupCredits)

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Check if the user is blocked
	if user.IsBlocked {
		if user.BlockedUntil == nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account has been blocked. Contact support.", nil)
		}
		if user.BlockedUntil.After(time.Now()) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
		}
	}

	// Stale failed attempts reset after 15 minutes
	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		db.Save(&user)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= 3 {
			user.IsBlocked = true
			unblockTime := now.Add(15 * time.Minute)
			user.BlockedUntil = &unblockTime
		}

		if err := db.Save(&user).Error; err != nil {
			logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("recording failed login")
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Successful login clears the lockout state
	user.LastLogin = time.Now()
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("saving last login time")
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: time.Now(),
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("saving login tracking")
	}

	logger.Log.Info().Uint("userId", user.ID).Str("ip", ip).Msg("user logged in")

	// Sanitize user data
	user.Password = ""

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("generating token")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Me(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Current user.", user)
}

func ChangePassword(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedChangePassword").(*struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error().Err(err).Msg("hashing password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("saving new password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLoginHistory").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	db := database.Database.Db

	var history []models.LoginTracking
	var total int64

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("timestamp DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&history).Error; err != nil {
		logger.Log.Error().Err(err).Uint("userId", userId).Msg("fetching login history")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	db.Model(&models.LoginTracking{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	response := map[string]interface{}{
		"loginHistory": history,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", response)
}
