// Package utils provides helpers for volunteer login-link tokens.
//
// Volunteers never hold passwords. The schedule email carries a link with a
// signed token identifying the volunteer; presenting the token is the whole
// login. Tokens are HS256 JWTs so possession of the link is sufficient and
// the server stores nothing per session.
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a login-link token fails signature or
// expiry checks.
var ErrInvalidToken = errors.New("invalid login token")

// NewLoginToken signs a login-link token for a volunteer. ttlHours bounds
// how long the emailed link keeps working.
func NewLoginToken(secret string, volunteerID uint64, ttlHours int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": volunteerID,
		"exp": now.Add(time.Duration(ttlHours) * time.Hour).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseLoginToken verifies a login-link token and returns the volunteer ID
// it was minted for.
func ParseLoginToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// Numeric claims round-trip through JSON as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return uint64(sub), nil
}
