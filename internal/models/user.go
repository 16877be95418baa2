package models

import "time"

type User struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // не отдаём наружу
	Role         string `json:"role"`

	// throttling / OTP-сброс пароля
	FailedAttempts    int        `json:"-"`
	LastFailedAt      *time.Time `json:"-"`
	ResetOTP          *string    `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`

	// текстовая капча
	CaptchaAnswer string `json:"captcha_answer"`
	CaptchaToken  string `json:"captcha_token"`

	// слайдер-капча (альтернатива текстовой)
	SliderX     *int   `json:"slider_x"`
	SliderToken string `json:"slider_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
