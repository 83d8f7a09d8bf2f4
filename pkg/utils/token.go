package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor roles carried in the token
const (
	RoleOrtho   = "ortho"
	RolePatient = "patient"
)

// GenerateToken mints a JWT holding the actor's ID, role and practice.
// Practice identity always travels in the token, never in a header.
func GenerateToken(userID uint64, role string, practiceID uint64) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "bandz_dev_secret" // Fallback when .env is not filled in
	}

	claims := jwt.MapClaims{
		"user_id":     userID,
		"role":        role,
		"practice_id": practiceID,
		"exp":         time.Now().Add(time.Hour * 24).Unix(), // Tokens last 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks the signature and returns the parsed token
func ValidateToken(encodedToken string) (*jwt.Token, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "bandz_dev_secret"
	}

	return jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		// Only HMAC signed tokens are accepted
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
}
