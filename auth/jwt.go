package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const TokenTTL = 7 * 24 * time.Hour

// JWTManager issues and verifies HS256 session tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("JWT secret not configured")
	}
	if ttl == 0 {
		ttl = TokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl}, nil
}

// CreateToken signs a token carrying the user id as subject, expiring after
// the configured TTL.
func (m *JWTManager) CreateToken(userID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken returns the user id, or "" for any malformed, mis-signed or
// expired token. Callers must treat "" as unauthenticated; the cause is
// deliberately not distinguished.
func (m *JWTManager) VerifyToken(raw string) string {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ""
	}
	return claims.Subject
}
