package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"pharmacademy/internal/captcha"
	"pharmacademy/internal/models"
	"pharmacademy/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
)

// AuthError несёт поле и флаг капчи до хендлера поверх сентинела.
type AuthError struct {
	Field           string // "email" | "password" | "captcha"
	RequiresCaptcha bool
	Err             error
}

func (e *AuthError) Error() string { return e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

type AccountKind string

const (
	KindEndUser       AccountKind = "user"
	KindAdministrator AccountKind = "admin"
)

// Account — общий срез учётки для обоих доменов. ID непрозрачный:
// для пользователей — десятичный, для админов — uuid.
type Account struct {
	ID             string
	Email          string
	Role           string
	PasswordHash   string
	FailedAttempts int
}

// CredentialStore — узкий контракт хранилища для throttle-логики.
// FindByEmail отдаёт (nil, nil) если учётки нет.
type CredentialStore interface {
	FindByEmail(email string) (*Account, error)
	IncrementFailedAttempts(id string) (int, error)
	ResetFailedAttempts(id string) error
}

type LoginAttempt struct {
	Email    string
	Password string

	CaptchaAnswer string
	CaptchaToken  string
	SliderX       *int
	SliderToken   string

	IP        string
	UserAgent string
}

type LoginResult struct {
	Account *Account
	Token   string
}

type LoginService interface {
	Login(attempt LoginAttempt) (*LoginResult, error)
}

type loginService struct {
	kind   AccountKind
	store  CredentialStore
	auth   AuthService
	text   *captcha.TextIssuer
	slider *captcha.SliderIssuer

	threshold            int
	alwaysRequireCaptcha bool

	logs   LoginLogRecorder // только для админского домена, может быть nil
	alerts AlertService     // может быть nil
}

// LoginLogRecorder пишет журнал входов; сбой записи не должен ломать вход.
type LoginLogRecorder interface {
	RecordLogin(accountID, status, ip, userAgent string)
}

func NewLoginService(
	kind AccountKind,
	store CredentialStore,
	auth AuthService,
	text *captcha.TextIssuer,
	slider *captcha.SliderIssuer,
	threshold int,
	alwaysRequireCaptcha bool,
	logs LoginLogRecorder,
	alerts AlertService,
) LoginService {
	return &loginService{
		kind:                 kind,
		store:                store,
		auth:                 auth,
		text:                 text,
		slider:               slider,
		threshold:            threshold,
		alwaysRequireCaptcha: alwaysRequireCaptcha,
		logs:                 logs,
		alerts:               alerts,
	}
}

func (s *loginService) Login(attempt LoginAttempt) (*LoginResult, error) {
	email := strings.TrimSpace(attempt.Email)
	log.Printf("[auth][login] attempt kind=%s email=%q", s.kind, email)

	acct, err := s.store.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acct == nil {
		// не раскрываем, существует ли учётка: тот же статус, что и при неверном пароле
		log.Printf("[auth][login] unknown email=%q kind=%s", email, s.kind)
		return nil, &AuthError{Field: "email", RequiresCaptcha: s.alwaysRequireCaptcha, Err: ErrInvalidCredentials}
	}

	required := s.alwaysRequireCaptcha || acct.FailedAttempts >= s.threshold
	if required {
		if err := s.checkChallenge(attempt); err != nil {
			return nil, err
		}
	}

	if !s.auth.CheckPassword(acct.PasswordHash, strings.TrimSpace(attempt.Password)) {
		n, incErr := s.store.IncrementFailedAttempts(acct.ID)
		if incErr != nil {
			// молча пропустить запись — значит сломать throttle, поэтому фатально
			return nil, fmt.Errorf("increment failed attempts: %w", incErr)
		}
		s.record(acct.ID, models.LoginLogStatusFailed, attempt)
		if n == s.threshold && s.alerts != nil {
			s.alerts.NotifyLockout(string(s.kind), acct.Email, n)
		}
		log.Printf("[auth][login] password mismatch id=%s kind=%s attempts=%d", acct.ID, s.kind, n)
		return nil, &AuthError{
			Field:           "password",
			RequiresCaptcha: n >= s.threshold,
			Err:             ErrInvalidCredentials,
		}
	}

	if acct.FailedAttempts > 0 {
		if err := s.store.ResetFailedAttempts(acct.ID); err != nil {
			return nil, fmt.Errorf("reset failed attempts: %w", err)
		}
	}

	token, err := s.auth.IssueToken(acct.ID, acct.Email, acct.Role, s.kind == KindAdministrator)
	if err != nil {
		return nil, err
	}
	s.record(acct.ID, models.LoginLogStatusSuccess, attempt)
	log.Printf("[auth][login] success id=%s kind=%s", acct.ID, s.kind)
	return &LoginResult{Account: acct, Token: token}, nil
}

// checkChallenge принимает любой из двух видов капчи.
func (s *loginService) checkChallenge(attempt LoginAttempt) error {
	switch {
	case attempt.CaptchaToken != "":
		if !s.text.Verify(attempt.CaptchaAnswer, attempt.CaptchaToken) {
			return &AuthError{Field: "captcha", RequiresCaptcha: true, Err: ErrCaptchaInvalid}
		}
	case attempt.SliderToken != "" && attempt.SliderX != nil:
		if !s.slider.Verify(*attempt.SliderX, attempt.SliderToken) {
			return &AuthError{Field: "captcha", RequiresCaptcha: true, Err: ErrCaptchaInvalid}
		}
	default:
		return &AuthError{Field: "captcha", RequiresCaptcha: true, Err: ErrCaptchaRequired}
	}
	return nil
}

func (s *loginService) record(accountID, status string, attempt LoginAttempt) {
	if s.logs == nil {
		return
	}
	s.logs.RecordLogin(accountID, status, attempt.IP, attempt.UserAgent)
}

// ===== привязки CredentialStore к репозиториям =====

type userCredentialStore struct {
	repo repositories.UserRepository
}

func NewUserCredentialStore(repo repositories.UserRepository) CredentialStore {
	return &userCredentialStore{repo: repo}
}

func (s *userCredentialStore) FindByEmail(email string) (*Account, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &Account{
		ID:             intID(u.ID),
		Email:          u.Email,
		Role:           u.Role,
		PasswordHash:   u.PasswordHash,
		FailedAttempts: u.FailedAttempts,
	}, nil
}

func (s *userCredentialStore) IncrementFailedAttempts(id string) (int, error) {
	return s.repo.IncrementFailedAttempts(mustInt(id))
}

func (s *userCredentialStore) ResetFailedAttempts(id string) error {
	return s.repo.ResetFailedAttempts(mustInt(id))
}

type adminCredentialStore struct {
	repo repositories.AdminUserRepository
}

func NewAdminCredentialStore(repo repositories.AdminUserRepository) CredentialStore {
	return &adminCredentialStore{repo: repo}
}

func (s *adminCredentialStore) FindByEmail(email string) (*Account, error) {
	a, err := s.repo.GetByEmail(email)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &Account{
		ID:             a.ID,
		Email:          a.Email,
		Role:           a.Role,
		PasswordHash:   a.PasswordHash,
		FailedAttempts: a.FailedAttempts,
	}, nil
}

func (s *adminCredentialStore) IncrementFailedAttempts(id string) (int, error) {
	return s.repo.IncrementFailedAttempts(id)
}

func (s *adminCredentialStore) ResetFailedAttempts(id string) error {
	return s.repo.ResetFailedAttempts(id)
}
