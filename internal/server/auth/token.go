// Package auth issues and verifies the signed bearer tokens that carry a
// username between requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned by NewTokenService when no signing secret is configured.
var ErrEmptySecret = errors.New("token signing secret is empty")

// Claims is the token payload: the standard claims plus the username.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs tokens with HMAC-SHA256 using a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService. A ttl of zero issues tokens without
// an expiry claim; a positive ttl sets exp to issue time plus ttl.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a compact signed token whose claims carry username.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token and returns its username.
// Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
