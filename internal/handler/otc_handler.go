package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/loyalty-api/internal/service"
)

// OTCHandler обрабатывает запросы одноразовых кодов: подтверждение email
// при регистрации и восстановление пароля
type OTCHandler struct {
	registrationOTC *service.RegistrationOTCService
	passwordReset   *service.PasswordResetService
}

// NewOTCHandler создает новый обработчик одноразовых кодов
func NewOTCHandler(registrationOTC *service.RegistrationOTCService, passwordReset *service.PasswordResetService) *OTCHandler {
	return &OTCHandler{
		registrationOTC: registrationOTC,
		passwordReset:   passwordReset,
	}
}

// SendCodeRequest представляет запрос на отправку кода
type SendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeRequest представляет запрос на проверку кода
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// ResetPasswordRequest представляет запрос на установку нового пароля
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// SendRegistrationCode отправляет код подтверждения регистрации.
// Ответ одинаков вне зависимости от того, занят ли email.
func (h *OTCHandler) SendRegistrationCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registrationOTC.SendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification code sent",
	})
}

// VerifyCode — объединенная проверка кода. Сначала пробуем код
// восстановления пароля, затем код регистрации; в ответе указано,
// какой поток совпал. Если не совпал ни один — единый обобщенный отказ.
func (h *OTCHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	err := h.passwordReset.VerifyCode(ctx, req.Email, req.Code)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Code verified",
			"type":    "password_reset",
		})
		return
	}
	if !errors.Is(err, service.ErrInvalidCode) {
		respondError(c, err)
		return
	}

	err = h.registrationOTC.VerifyCode(ctx, req.Email, req.Code)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Code verified",
			"type":    "registration",
		})
		return
	}

	respondError(c, err)
}

// ForgotPassword отправляет код восстановления пароля.
// Ответ не раскрывает, существует ли аккаунт с этим email.
func (h *OTCHandler) ForgotPassword(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.passwordReset.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recovery code sent",
	})
}

// ResetPassword устанавливает новый пароль после авторитетной проверки кода
func (h *OTCHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.passwordReset.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}
