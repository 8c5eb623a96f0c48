package jwt

import (
	"errors"
	"time"

	"mental_models_hub/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("role not permitted")
)

// NewToken mints an access token carrying the user's role claim.
func NewToken(user models.User, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = user.ID.String()
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString([]byte(secret))
}

// VerifyRole parses and validates a token and returns its role claim.
// Expired or malformed tokens fail with ErrInvalidToken.
func VerifyRole(tokenString, secret string) (models.Role, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return "", ErrInvalidToken
	}
	return models.Role(role), nil
}

// RequireEditor verifies the token and rejects roles without edit rights.
func RequireEditor(tokenString, secret string) (models.Role, error) {
	role, err := VerifyRole(tokenString, secret)
	if err != nil {
		return "", err
	}
	if !role.CanEdit() {
		return "", ErrForbidden
	}
	return role, nil
}
