package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"band-backend/apperrors"
	"band-backend/middleware"
	"band-backend/services"
	"band-backend/utils"
)

const resetRequestedMessage = "If your email is registered, you will receive reset instructions"

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

type resetPasswordPayload struct {
	Password string `json:"password"`
}

type AuthController struct {
	Auth   *services.AuthService
	Resets *services.PasswordResetService
}

func NewAuthController(auth *services.AuthService, resets *services.PasswordResetService) *AuthController {
	return &AuthController{Auth: auth, Resets: resets}
}

// Login handles POST /api/admin/login.
func (ctl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, apperrors.InvalidCredentials())
		return
	}
	token, err := ctl.Auth.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RequestPasswordReset handles POST /api/admin/reset-password. The reply is
// the same whether or not the email belongs to an admin.
func (ctl *AuthController) RequestPasswordReset(c *gin.Context) {
	var payload resetRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, apperrors.Validation("Email is required"))
		return
	}
	if err := ctl.Resets.RequestReset(c.Request.Context(), payload.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, resetRequestedMessage)
}

// ResetPassword handles POST /api/admin/reset-password/:userId/:token.
func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var payload resetPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, apperrors.Validation("Password is required"))
		return
	}
	if err := ctl.Resets.ResetPassword(c.Request.Context(), c.Param("userId"), c.Param("token"), payload.Password); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Password reset successful")
}

// Me returns the identity carried by the bearer token.
func (ctl *AuthController) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, apperrors.Unauthenticated("Access token required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": identity.ID, "username": identity.Username})
}
