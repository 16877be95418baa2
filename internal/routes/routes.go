package routes

import (
	"github.com/gin-gonic/gin"

	"pharmacademy/internal/handlers"
	"pharmacademy/internal/middleware"
	"pharmacademy/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	adminAuthHandler *handlers.AdminAuthHandler,
	captchaHandler *handlers.CaptchaHandler,
	loginLogHandler *handlers.LoginLogHandler,
	authService services.AuthService,
) *gin.Engine {
	requireAuth := middleware.AuthMiddleware(authService)

	// ---- public
	auth := r.Group("/auth")
	{
		auth.GET("/captcha", captchaHandler.GetTextCaptcha)
		auth.GET("/captcha/slider", captchaHandler.GetSliderCaptcha)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	r.POST("/admin/auth/login", adminAuthHandler.Login)

	// ---- admin console (только токены с is_admin)
	admin := r.Group("/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.GET("/auth/me", adminAuthHandler.Me)
		admin.GET("/login-logs", loginLogHandler.List)
		admin.GET("/login-logs/export", loginLogHandler.Export)
	}

	return r
}
