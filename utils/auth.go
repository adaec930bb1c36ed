// utils/auth.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAuthToken returns a new opaque session token key.
func GenerateAuthToken() string {
	key := make([]byte, 20)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate auth token")
	}
	return hex.EncodeToString(key)
}

// Link token purposes. Email-validation and password-reset links carry a
// signed, short-lived token so the endpoints need no session.
const (
	PurposeEmailValidation = "email-validation"
	PurposePasswordReset   = "password-reset"
)

var ErrInvalidLinkToken = errors.New("invalid link token")

// SignLinkToken signs a token binding an email address to a purpose.
func SignLinkToken(email, purpose string, ttl time.Duration) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     email,
		"purpose": purpose,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseLinkToken validates a link token and returns the email it was issued
// for. Tokens signed for a different purpose are rejected.
func ParseLinkToken(tokenString, purpose string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidLinkToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidLinkToken
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return "", ErrInvalidLinkToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", ErrInvalidLinkToken
	}
	return email, nil
}
