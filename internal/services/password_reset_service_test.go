package services

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacademy/internal/models"
)

type fakeUserRepo struct {
	user *models.User
}

func (r *fakeUserRepo) Create(user *models.User) error { return nil }

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) UpdatePassword(id int, passwordHash string) error {
	r.user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) IncrementFailedAttempts(id int) (int, error) {
	r.user.FailedAttempts++
	return r.user.FailedAttempts, nil
}

func (r *fakeUserRepo) ResetFailedAttempts(id int) error {
	r.user.FailedAttempts = 0
	return nil
}

func (r *fakeUserRepo) SetResetOTP(id int, code string, expiresAt time.Time) error {
	r.user.ResetOTP = &code
	r.user.ResetOTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) ClearResetOTP(id int) error {
	r.user.ResetOTP = nil
	r.user.ResetOTPExpiresAt = nil
	return nil
}

type fakeEmailSender struct {
	sent    []string
	failErr error
}

func (e *fakeEmailSender) SendOTPEmail(email, code string) error {
	if e.failErr != nil {
		return e.failErr
	}
	e.sent = append(e.sent, code)
	return nil
}

type resetFixture struct {
	svc    PasswordResetService
	repo   *fakeUserRepo
	emails *fakeEmailSender
	clock  *fakeClock
	auth   AuthService
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	clock := newTestClock()
	auth := NewAuthService(testSecret, time.Hour, clock.Now)
	repo := &fakeUserRepo{user: &models.User{
		ID:    7,
		Email: "a@x.com",
		Role:  "member",
	}}
	emails := &fakeEmailSender{}
	svc := NewPasswordResetService(repo, emails, auth, 10*time.Minute, clock.Now)
	return &resetFixture{svc: svc, repo: repo, emails: emails, clock: clock, auth: auth}
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestRequestResetUnknownEmail(t *testing.T) {
	f := newResetFixture(t)
	err := f.svc.RequestReset("nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordResetEndToEnd(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset("a@x.com"))
	require.Len(t, f.emails.sent, 1)
	code := f.emails.sent[0]
	assert.Regexp(t, sixDigits, code)

	require.NotNil(t, f.repo.user.ResetOTP)
	assert.Equal(t, code, *f.repo.user.ResetOTP)
	require.NotNil(t, f.repo.user.ResetOTPExpiresAt)
	assert.Equal(t, f.clock.Now().Add(10*time.Minute), *f.repo.user.ResetOTPExpiresAt)

	require.NoError(t, f.svc.VerifyOTP("a@x.com", code))

	require.NoError(t, f.svc.ResetPassword("a@x.com", code, "newpass123"))
	assert.True(t, f.auth.CheckPassword(f.repo.user.PasswordHash, "newpass123"))
	assert.Nil(t, f.repo.user.ResetOTP)
	assert.Nil(t, f.repo.user.ResetOTPExpiresAt)

	// использованный код больше не проходит
	assert.ErrorIs(t, f.svc.VerifyOTP("a@x.com", code), ErrOTPInvalid)
}

func TestNewCodeInvalidatesPrevious(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset("a@x.com"))
	first := f.emails.sent[0]
	require.NoError(t, f.svc.RequestReset("a@x.com"))
	second := f.emails.sent[1]

	if first == second {
		t.Skip("collision between two random codes, nothing to assert")
	}
	assert.ErrorIs(t, f.svc.VerifyOTP("a@x.com", first), ErrOTPInvalid)
	assert.NoError(t, f.svc.VerifyOTP("a@x.com", second))
}

func TestOTPExpiry(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset("a@x.com"))
	code := f.emails.sent[0]

	f.clock.Advance(10 * time.Minute)
	assert.NoError(t, f.svc.VerifyOTP("a@x.com", code), "code at exact expiry is still valid")

	f.clock.Advance(time.Second)
	assert.ErrorIs(t, f.svc.VerifyOTP("a@x.com", code), ErrOTPExpired)
	assert.ErrorIs(t, f.svc.ResetPassword("a@x.com", code, "newpass123"), ErrOTPExpired)
}

func TestWrongCodeRejected(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset("a@x.com"))
	assert.ErrorIs(t, f.svc.VerifyOTP("a@x.com", "000000"), ErrOTPInvalid)
	assert.ErrorIs(t, f.svc.ResetPassword("a@x.com", "000000", "newpass123"), ErrOTPInvalid)
}

func TestDeliveryFailureIsFatal(t *testing.T) {
	f := newResetFixture(t)
	f.emails.failErr = errors.New("smtp down")

	err := f.svc.RequestReset("a@x.com")
	assert.ErrorIs(t, err, ErrDelivery)
}

func TestResetRejectsShortPassword(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset("a@x.com"))
	code := f.emails.sent[0]

	err := f.svc.ResetPassword("a@x.com", code, "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	// код не должен сгорать на ошибке валидации
	assert.NoError(t, f.svc.VerifyOTP("a@x.com", code))
}
