package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed admin login.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService issues and checks admin tokens. There is a single admin
// account configured through the environment.
type AuthService struct {
	Secret       []byte
	Email        string
	PasswordHash string
	TTL          time.Duration
	Now          func() time.Time
}

// Enabled reports whether admin routes require a token.
func (s AuthService) Enabled() bool { return len(s.Secret) > 0 }

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks the credentials and returns a signed HS256 token.
func (s AuthService) Login(email, password string) (string, time.Time, error) {
	if !s.Enabled() || s.Email == "" || s.PasswordHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.Email) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := s.now()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.Email,
		Issuer:    "autotrust",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a bearer token and returns its subject.
func (s AuthService) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("autotrust"),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// HashPassword produces a value for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
