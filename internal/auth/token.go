package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Distinguishable decode failures.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)

// TokenManager mints and parses HS256 access/refresh tokens carrying
// {sub: username, exp}.
type TokenManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	// Rotate controls whether Refresh mints a new refresh token alongside the
	// access token. Left false by default; exposed here only so a future
	// deployment can opt in without a new type.
	Rotate bool
}

func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), accessExpiry: accessExpiry, refreshExpiry: refreshExpiry}
}

func (m *TokenManager) issue(username string, expiry time.Duration) (string, time.Time, error) {
	expireAt := time.Now().Add(expiry)
	claims := jwt.MapClaims{
		"sub": username,
		"exp": expireAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	return signed, expireAt, err
}

// IssueAccessToken mints a short-lived access token for username.
func (m *TokenManager) IssueAccessToken(username string) (string, error) {
	signed, _, err := m.issue(username, m.accessExpiry)
	return signed, err
}

// IssueRefreshToken mints a long-lived refresh token, returning its cleartext
// and expiry so the caller can hash and persist it.
func (m *TokenManager) IssueRefreshToken(username string) (string, time.Time, error) {
	return m.issue(username, m.refreshExpiry)
}

// ParseToken decodes token and returns the embedded sub, or one of
// ErrTokenExpired, ErrTokenMalformed, ErrTokenSignature.
func (m *TokenManager) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		}
		return "", ErrTokenMalformed
	}
	if !token.Valid {
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
