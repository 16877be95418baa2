package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacademy/internal/services"
)

func newProtectedRouter(auth services.AuthService, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthMiddleware(auth))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/ping", func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	auth := services.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, nil)
	token, err := auth.IssueToken("42", "a@x.com", "member", false)
	require.NoError(t, err)

	w := doGet(newProtectedRouter(auth, false), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthMiddlewareRejectsBadHeaders(t *testing.T) {
	auth := services.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, nil)
	r := newProtectedRouter(auth, false)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer  ", "Bearer not.a.jwt"} {
		w := doGet(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuerClock := now
	issuer := services.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, func() time.Time { return issuerClock })
	token, err := issuer.IssueToken("42", "a@x.com", "member", false)
	require.NoError(t, err)

	verifierClock := now.Add(2 * time.Hour)
	verifier := services.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, func() time.Time { return verifierClock })

	w := doGet(newProtectedRouter(verifier, false), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// пользовательский токен в админку не проходит, даже валидный
func TestRequireAdminRejectsEndUserToken(t *testing.T) {
	auth := services.NewAuthService([]byte("0123456789abcdef0123456789abcdef"), time.Hour, nil)

	userToken, err := auth.IssueToken("42", "a@x.com", "admin", false)
	require.NoError(t, err)
	w := doGet(newProtectedRouter(auth, true), "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := auth.IssueToken("9f3c", "ops@x.com", "officer", true)
	require.NoError(t, err)
	w = doGet(newProtectedRouter(auth, true), "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
