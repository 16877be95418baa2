package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims — общая форма для обоих доменов. IsAdmin отличает токен админки от
// пользовательского, даже если численные id когда-нибудь совпадут.
type Claims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
	IssueToken(id, email, role string, isAdmin bool) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

type authService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(secret []byte, ttl time.Duration, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{secret: secret, ttl: ttl, now: now}
}

func (s *authService) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) IssueToken(id, email, role string, isAdmin bool) (string, error) {
	claims := &Claims{
		UserID:  id,
		Email:   email,
		Role:    role,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
