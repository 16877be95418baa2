package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacademy/internal/models"
	"pharmacademy/internal/services"
)

type fakeLoginFlow struct {
	res *services.LoginResult
	err error
}

func (f *fakeLoginFlow) Login(attempt services.LoginAttempt) (*services.LoginResult, error) {
	return f.res, f.err
}

type fakeResetService struct {
	requestErr error
	verifyErr  error
	resetErr   error
}

func (f *fakeResetService) RequestReset(email string) error { return f.requestErr }
func (f *fakeResetService) VerifyOTP(email, code string) error {
	return f.verifyErr
}
func (f *fakeResetService) ResetPassword(email, code, newPassword string) error {
	return f.resetErr
}

type fakeUserService struct {
	user *models.User
}

func (f *fakeUserService) GetUserByID(id int) (*models.User, error) {
	if f.user == nil {
		return nil, services.ErrUserNotFound
	}
	return f.user, nil
}

func newAuthRouter(login LoginFlow, reset services.PasswordResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(login, reset, &fakeUserService{})
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.POST("/auth/verify-otp", h.VerifyOTP)
	r.POST("/auth/reset-password", h.ResetPassword)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLoginHandlerSuccess(t *testing.T) {
	login := &fakeLoginFlow{res: &services.LoginResult{
		Account: &services.Account{ID: "42", Email: "a@x.com", Role: "member"},
		Token:   "signed-token",
	}}
	r := newAuthRouter(login, &fakeResetService{})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "signed-token", body["token"])
}

func TestLoginHandlerSurfacesCaptchaFlag(t *testing.T) {
	login := &fakeLoginFlow{err: &services.AuthError{
		Field:           "password",
		RequiresCaptcha: true,
		Err:             services.ErrInvalidCredentials,
	}}
	r := newAuthRouter(login, &fakeResetService{})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "a@x.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "password", body["field"])
	assert.Equal(t, true, body["requires_captcha"])
}

func TestLoginHandlerHidesInternalErrors(t *testing.T) {
	login := &fakeLoginFlow{err: assert.AnError}
	r := newAuthRouter(login, &fakeResetService{})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestLoginHandlerRejectsMissingFields(t *testing.T) {
	r := newAuthRouter(&fakeLoginFlow{}, &fakeResetService{})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForgotPasswordStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"unknown email", services.ErrUserNotFound, http.StatusNotFound},
		{"delivery failure", services.ErrDelivery, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(&fakeLoginFlow{}, &fakeResetService{requestErr: tc.err})
			w := postJSON(t, r, "/auth/forgot-password", gin.H{"email": "a@x.com"})
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestVerifyOTPDistinguishesReasons(t *testing.T) {
	r := newAuthRouter(&fakeLoginFlow{}, &fakeResetService{verifyErr: services.ErrOTPInvalid})
	w := postJSON(t, r, "/auth/verify-otp", gin.H{"email": "a@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid", decodeBody(t, w)["reason"])

	r = newAuthRouter(&fakeLoginFlow{}, &fakeResetService{verifyErr: services.ErrOTPExpired})
	w = postJSON(t, r, "/auth/verify-otp", gin.H{"email": "a@x.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "expired", decodeBody(t, w)["reason"])
}

func TestResetPasswordWeakPassword(t *testing.T) {
	r := newAuthRouter(&fakeLoginFlow{}, &fakeResetService{resetErr: services.ErrWeakPassword})
	w := postJSON(t, r, "/auth/reset-password", gin.H{
		"email": "a@x.com", "otp": "123456", "new_password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "new_password", decodeBody(t, w)["field"])
}
