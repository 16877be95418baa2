package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestAuthServicePasswordHashing(t *testing.T) {
	auth := NewAuthService(testSecret, 7*24*time.Hour, nil)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, auth.CheckPassword(hash, "secret123"))
	assert.False(t, auth.CheckPassword(hash, "secret124"))
	assert.False(t, auth.CheckPassword("", "secret123"))
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	clock := newTestClock()
	auth := NewAuthService(testSecret, 7*24*time.Hour, clock.Now)

	token, err := auth.IssueToken("42", "a@x.com", "member", false)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.False(t, claims.IsAdmin)
}

func TestAuthServiceAdminFlagSurvives(t *testing.T) {
	clock := newTestClock()
	auth := NewAuthService(testSecret, time.Hour, clock.Now)

	token, err := auth.IssueToken("9f3c", "ops@x.com", "officer", true)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAuthServiceTokenExpiry(t *testing.T) {
	clock := newTestClock()
	auth := NewAuthService(testSecret, time.Hour, clock.Now)

	token, err := auth.IssueToken("42", "a@x.com", "member", false)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = auth.ParseToken(token)
	assert.Error(t, err, "expired token must not parse")
}

func TestAuthServiceRejectsForeignSecret(t *testing.T) {
	clock := newTestClock()
	auth := NewAuthService(testSecret, time.Hour, clock.Now)
	other := NewAuthService([]byte("another-secret-another-secret-32"), time.Hour, clock.Now)

	token, err := other.IssueToken("42", "a@x.com", "member", false)
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}
