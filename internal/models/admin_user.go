package models

import "time"

type AdminUser struct {
	ID           string `json:"id"` // uuid
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`

	FailedAttempts    int        `json:"-"`
	LastFailedAt      *time.Time `json:"-"`
	ResetOTP          *string    `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
