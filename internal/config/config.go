package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret"`
	TokenTTLHours        int    `yaml:"token_ttl_hours"`
	CaptchaTTLMinutes    int    `yaml:"captcha_ttl_minutes"`
	SliderTolerance      int    `yaml:"slider_tolerance"`
	FailedAttemptsLimit  int    `yaml:"failed_attempts_limit"`
	AlwaysRequireCaptcha bool   `yaml:"always_require_captcha"`
	OTPTTLMinutes        int    `yaml:"otp_ttl_minutes"`
}

func (a *AuthConfig) TokenTTL() time.Duration   { return time.Duration(a.TokenTTLHours) * time.Hour }
func (a *AuthConfig) CaptchaTTL() time.Duration { return time.Duration(a.CaptchaTTLMinutes) * time.Minute }
func (a *AuthConfig) OTPTTL() time.Duration     { return time.Duration(a.OTPTTLMinutes) * time.Minute }

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AlertChatID int64  `yaml:"alert_chat_id"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth     AuthConfig     `yaml:"auth"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// секрет общий для HMAC капчи и JWT, короткий не принимаем
	if len(cfg.Auth.JWTSecret) < 32 {
		panic("auth.jwt_secret must be at least 32 bytes")
	}
	cfg.Auth.applyDefaults()
	return &cfg
}

func (a *AuthConfig) applyDefaults() {
	if a.TokenTTLHours == 0 {
		a.TokenTTLHours = 7 * 24
	}
	if a.CaptchaTTLMinutes == 0 {
		a.CaptchaTTLMinutes = 5
	}
	if a.SliderTolerance == 0 {
		a.SliderTolerance = 5
	}
	if a.FailedAttemptsLimit == 0 {
		a.FailedAttemptsLimit = 3
	}
	if a.OTPTTLMinutes == 0 {
		a.OTPTTLMinutes = 10
	}
}
