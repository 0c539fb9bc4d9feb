package auth

import (
	"errors"
	"fmt"
	"kyndra/internal/models"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// MagicClaims represents the claims in a passwordless sign-in token
type MagicClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateMagicToken creates a short-lived signed token for a sign-in link.
// The returned jti is persisted so each link can be consumed exactly once.
func GenerateMagicToken(email string) (token string, jti string, err error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return "", "", fmt.Errorf("JWT_SECRET environment variable not set")
	}

	jti = uuid.NewString()
	claims := MagicClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(models.MagicLinkDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "kyndra",
			Subject:   email,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, jti, nil
}

// ValidateMagicToken validates and parses a sign-in token
func ValidateMagicToken(tokenString string) (*MagicClaims, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &MagicClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*MagicClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
