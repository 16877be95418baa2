package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pharmacademy/internal/models"
	"pharmacademy/internal/services"
)

type AuthHandler struct {
	login LoginFlow
	reset services.PasswordResetService
	users services.UserService
}

// LoginFlow — то, что нужно хендлеру от логин-сервиса
type LoginFlow interface {
	Login(attempt services.LoginAttempt) (*services.LoginResult, error)
}

func NewAuthHandler(login LoginFlow, reset services.PasswordResetService, users services.UserService) *AuthHandler {
	return &AuthHandler{login: login, reset: reset, users: users}
}

// @Summary      Log in
// @Description  Authenticates an end user; after repeated failures a captcha response is mandatory
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials plus optional captcha response"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := h.login.Login(services.LoginAttempt{
		Email:         req.Email,
		Password:      req.Password,
		CaptchaAnswer: req.CaptchaAnswer,
		CaptchaToken:  req.CaptchaToken,
		SliderX:       req.SliderX,
		SliderToken:   req.SliderToken,
		IP:            c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})
	if err != nil {
		respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    res.Account.ID,
			"email": res.Account.Email,
			"role":  res.Account.Role,
		},
		"token": res.Token,
	})
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	idStr, _ := getStringFromCtx(c, "user_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token subject"})
		return
	}
	user, err := h.users.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
		},
	})
}

// @Summary      Request a password reset code
// @Description  Emails a 6-digit one-time code; a newer code silently replaces an older one
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.ForgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch err := h.reset.RequestReset(req.Email); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
	case services.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "email not registered"})
	case services.ErrDelivery:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not send email, try again"})
	default:
		log.Printf("[auth][forgot-password] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "request failed"})
	}
}

// @Summary      Verify a password reset code
// @Description  Advisory check for the UI; the reset endpoint re-validates regardless
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyOTPRequest  true  "Email and code"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch err := h.reset.VerifyOTP(req.Email, req.OTP); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified"})
	case services.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "email not registered"})
	case services.ErrOTPInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid code", "reason": "invalid"})
	case services.ErrOTPExpired:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code expired, request a new one", "reason": "expired"})
	default:
		log.Printf("[auth][verify-otp] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "verification failed"})
	}
}

// @Summary      Reset password with a verified code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.ResetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	switch err := h.reset.ResetPassword(req.Email, req.OTP, req.NewPassword); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "password changed"})
	case services.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "email not registered"})
	case services.ErrOTPInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid code", "reason": "invalid"})
	case services.ErrOTPExpired:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code expired, request a new one", "reason": "expired"})
	case services.ErrWeakPassword:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "field": "new_password"})
	default:
		log.Printf("[auth][reset-password] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "reset failed"})
	}
}
