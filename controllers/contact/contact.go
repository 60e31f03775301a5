package contactController

import (
	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
)

func SubmitMessage(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedContact").(*struct {
		Name    string `json:"name" validate:"required,min=2,max=80"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required,min=2,max=120"`
		Message string `json:"message" validate:"required,min=10,max=5000"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	message := models.ContactMessage{
		Name:      reqData.Name,
		Email:     reqData.Email,
		Subject:   reqData.Subject,
		Message:   reqData.Message,
		Status:    models.MessageStatusNew,
		IPAddress: ip,
	}

	db := database.Database.Db
	if err := db.Create(&message).Error; err != nil {
		logger.Log.Error().Err(err).Msg("saving contact message")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit message!", nil)
	}

	utils.SendContactNotificationEmail(message.Name, message.Email, message.Subject, message.Message)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message received. We will get back to you soon.", fiber.Map{
		"id": message.ID,
	})
}
