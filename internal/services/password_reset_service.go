package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"pharmacademy/internal/models"
	"pharmacademy/internal/repositories"
	"pharmacademy/internal/utils"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrOTPInvalid   = errors.New("otp invalid")
	ErrOTPExpired   = errors.New("otp expired")
	ErrDelivery     = errors.New("email delivery failed")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

type PasswordResetService interface {
	RequestReset(email string) error
	VerifyOTP(email, code string) error
	ResetPassword(email, code, newPassword string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	emails   EmailService
	auth     AuthService
	otpTTL   time.Duration
	now      func() time.Time
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	emails EmailService,
	auth AuthService,
	otpTTL time.Duration,
	now func() time.Time,
) PasswordResetService {
	if now == nil {
		now = time.Now
	}
	return &passwordResetService{
		userRepo: userRepo,
		emails:   emails,
		auth:     auth,
		otpTTL:   otpTTL,
		now:      now,
	}
}

// RequestReset выдаёт новый код. Старый невостребованный код просто
// затирается — валиден всегда только последний.
func (s *passwordResetService) RequestReset(email string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	expires := s.now().Add(s.otpTTL)
	if err := s.userRepo.SetResetOTP(user.ID, code, expires); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	// недоставленный код бесполезен — сбой почты фатален для запроса
	if err := s.emails.SendOTPEmail(user.Email, code); err != nil {
		log.Printf("[password-reset] failed to send otp to %s: %v", user.Email, err)
		return ErrDelivery
	}

	log.Printf("[password-reset] otp issued for userID=%d exp_at=%s", user.ID, expires.Format(time.RFC3339))
	return nil
}

func (s *passwordResetService) VerifyOTP(email, code string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	return s.validateOTP(user, code)
}

// ResetPassword перепроверяет код с нуля: verify-шаг чисто для UX,
// авторитетна только эта проверка.
func (s *passwordResetService) ResetPassword(email, code, newPassword string) error {
	user, err := s.findUser(email)
	if err != nil {
		return err
	}
	if err := s.validateOTP(user, code); err != nil {
		return err
	}

	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.userRepo.ClearResetOTP(user.ID); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	log.Printf("[password-reset] password changed for userID=%d", user.ID)
	return nil
}

func (s *passwordResetService) findUser(email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if isNoRows(err) {
			// forgot-password осмыслен только при существующей учётке,
			// здесь "не найдено" отдаём явно (в отличие от /login)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *passwordResetService) validateOTP(user *models.User, code string) error {
	if user.ResetOTP == nil || *user.ResetOTP != code {
		return ErrOTPInvalid
	}
	if user.ResetOTPExpiresAt == nil || s.now().After(*user.ResetOTPExpiresAt) {
		return ErrOTPExpired
	}
	return nil
}
