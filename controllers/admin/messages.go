package adminController

import (
	"time"

	"finboard/database"
	"finboard/logger"
	"finboard/middleware"
	"finboard/models"
	"finboard/utils"

	"github.com/gofiber/fiber/v2"
)

func ListMessages(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedListMessages").(*struct {
		Page   *int   `query:"page"`
		Limit  *int   `query:"limit"`
		Status string `query:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	offset := (*reqData.Page - 1) * (*reqData.Limit)

	query := db.Model(&models.ContactMessage{}).Where("is_deleted = ?", false)
	if reqData.Status != "" {
		query = query.Where("status = ?", reqData.Status)
	}

	var total int64
	query.Count(&total)

	var messages []models.ContactMessage
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(*reqData.Limit).
		Find(&messages).Error; err != nil {
		logger.Log.Error().Err(err).Msg("listing contact messages")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Contact messages.", fiber.Map{
		"messages": messages,
		"pagination": fiber.Map{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	})
}

func UpdateMessage(c *fiber.Ctx) error {
	adminId, _ := c.Locals("userId").(uint)

	messageId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid message id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateMessage").(*struct {
		Status    string `json:"status"`
		ReplyNote string `json:"replyNote"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var message models.ContactMessage
	if err := db.Where("id = ? AND is_deleted = ?", messageId, false).First(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
	}

	message.Status = models.ContactMessageStatus(reqData.Status)
	if message.Status == models.MessageStatusReplied {
		message.ReplyNote = reqData.ReplyNote
		message.RepliedBy = adminId
		repliedAt := time.Now()
		message.RepliedAt = &repliedAt
	}

	if err := db.Save(&message).Error; err != nil {
		logger.Log.Error().Err(err).Uint("messageId", messageId).Msg("updating contact message")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message!", nil)
	}

	if message.Status == models.MessageStatusReplied {
		utils.SendContactReplyEmail(message.Email, message.Name, message.Subject, message.ReplyNote)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message updated successfully.", message)
}

func DeleteMessage(c *fiber.Ctx) error {
	messageId, ok := parseID(c, "id")
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid message id!", nil)
	}

	db := database.Database.Db

	var message models.ContactMessage
	if err := db.Where("id = ? AND is_deleted = ?", messageId, false).First(&message).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
	}

	message.IsDeleted = true
	if err := db.Save(&message).Error; err != nil {
		logger.Log.Error().Err(err).Uint("messageId", messageId).Msg("deleting contact message")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete message!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message deleted.", nil)
}
