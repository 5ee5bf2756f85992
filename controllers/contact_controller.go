package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"band-backend/apperrors"
	"band-backend/services"
	"band-backend/utils"
)

type contactPayload struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactSender is implemented by services.NotificationService.
type ContactSender interface {
	SendContact(ctx context.Context, msg services.ContactMessage) (services.ContactResult, error)
}

type ContactController struct {
	Notifications ContactSender
}

func NewContactController(notifications ContactSender) *ContactController {
	return &ContactController{Notifications: notifications}
}

// SendEmail handles POST /api/send-email.
func (ctl *ContactController) SendEmail(c *gin.Context) {
	var payload contactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	result, err := ctl.Notifications.SendContact(c.Request.Context(), services.ContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	})
	if err != nil {
		utils.JSONError(c, apperrors.HTTPStatus(err), apperrors.PublicMessage(err))
		return
	}

	if result.ConfirmationErr != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"warning": "Notification sent, but confirmation email failed",
			"data":    gin.H{"notification": result.NotificationID},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Emails sent successfully",
		"data":    gin.H{"notification": result.NotificationID, "confirmation": result.ConfirmationID},
	})
}
