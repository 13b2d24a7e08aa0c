package api

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long a session token stays valid after issue
const TokenTTL = 7 * 24 * time.Hour

// ErrTokenInvalid covers malformed, tampered and expired tokens alike
var ErrTokenInvalid = errors.New("token invalid")

// Claims carries the authenticated identity encoded in a session token
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken encodes {id, role} into a signed HS256 token valid for ttl
func SignToken(id, role, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	claims := Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry and returns the claims.
// Claims without an id are rejected.
func ParseToken(tokenString, secret string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}
	if claims.ID == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
