package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopmart/storefront/internal/models"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// AuthToken creates and verifies JWT authorization tokens
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken with signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

// CreateToken creates signed token for user
func (t *AuthToken) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})

	return token.SignedString(t.key)
}

// VerifyToken parses and validates token string
func (t *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{
		UserID: c.UserID,
		Name:   c.Name,
		Role:   c.Role,
	}, nil
}
