package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacademy/internal/models"
	"pharmacademy/internal/services"
)

type AdminAuthHandler struct {
	login  LoginFlow
	admins services.AdminUserService
}

func NewAdminAuthHandler(login LoginFlow, admins services.AdminUserService) *AdminAuthHandler {
	return &AdminAuthHandler{login: login, admins: admins}
}

// @Summary      Admin log in
// @Description  Same throttle/captcha contract as the end-user login, admin credential domain
// @Tags         AdminAuth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials plus optional captcha response"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]interface{}
// @Router       /admin/auth/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
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

// @Summary      Current admin
// @Tags         AdminAuth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /admin/auth/me [get]
func (h *AdminAuthHandler) Me(c *gin.Context) {
	id, _ := getStringFromCtx(c, "user_id")
	admin, err := h.admins.GetAdminByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "admin user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
			"email":    admin.Email,
			"role":     admin.Role,
		},
	})
}
