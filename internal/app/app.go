package app

import (
	"database/sql"
	"fmt"
	"log"

	"pharmacademy/internal/captcha"
	"pharmacademy/internal/config"
	"pharmacademy/internal/handlers"
	"pharmacademy/internal/pdf"
	"pharmacademy/internal/repositories"
	"pharmacademy/internal/routes"
	"pharmacademy/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	_ "pharmacademy/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminUserRepository(db)
	loginLogRepo := repositories.NewLoginLogRepository(db)

	// === Captcha (stateless, общий секрет с JWT) ===
	codec := captcha.NewCodec([]byte(cfg.Auth.JWTSecret), nil)
	textIssuer := captcha.NewTextIssuer(codec, cfg.Auth.CaptchaTTL())
	sliderIssuer := captcha.NewSliderIssuer(codec, cfg.Auth.CaptchaTTL(), cfg.Auth.SliderTolerance)

	// === Services ===
	authService := services.NewAuthService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL(), nil)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var alertService services.AlertService
	if cfg.Telegram.BotToken != "" {
		alertService, err = services.NewTelegramAlertService(cfg.Telegram.BotToken, cfg.Telegram.AlertChatID)
		if err != nil {
			// алерты опциональны, без бота просто работаем дальше
			log.Printf("telegram alerts disabled: %v", err)
			alertService = nil
		}
	}

	loginLogService := services.NewLoginLogService(loginLogRepo, pdf.NewLoginReportGenerator())

	userLogin := services.NewLoginService(
		services.KindEndUser,
		services.NewUserCredentialStore(userRepo),
		authService,
		textIssuer,
		sliderIssuer,
		cfg.Auth.FailedAttemptsLimit,
		cfg.Auth.AlwaysRequireCaptcha,
		nil, // журнал входов ведём только для админки
		alertService,
	)
	adminLogin := services.NewLoginService(
		services.KindAdministrator,
		services.NewAdminCredentialStore(adminRepo),
		authService,
		textIssuer,
		sliderIssuer,
		cfg.Auth.FailedAttemptsLimit,
		cfg.Auth.AlwaysRequireCaptcha,
		loginLogService,
		alertService,
	)

	resetService := services.NewPasswordResetService(userRepo, emailService, authService, cfg.Auth.OTPTTL(), nil)
	userService := services.NewUserService(userRepo)
	adminService := services.NewAdminUserService(adminRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userLogin, resetService, userService)
	adminAuthHandler := handlers.NewAdminAuthHandler(adminLogin, adminService)
	captchaHandler := handlers.NewCaptchaHandler(textIssuer, sliderIssuer)
	loginLogHandler := handlers.NewLoginLogHandler(loginLogService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		adminAuthHandler,
		captchaHandler,
		loginLogHandler,
		authService,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
