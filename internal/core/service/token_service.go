package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alumnihub/alumni-network/internal/core/domain"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService mints and decodes session credentials. Access and refresh
// tokens are signed with distinct secrets so one kind can never pass for the
// other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccessToken mints a short-lived, self-contained credential carrying
// the identity claims the session guard resolves on every request.
func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.accessSecret)
}

// IssueRefreshToken mints a longer-lived credential identifying the account.
// The random jti makes every issued value distinct, so overwriting the stored
// copy on login implicitly revokes the previous session.
func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", fmt.Errorf("refresh token entropy: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": hex.EncodeToString(jti),
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.refreshSecret)
}

// ParseRefreshSubject decodes a presented refresh token and returns the
// account id it claims to belong to. Signature, algorithm, and expiry are
// checked here; every failure mode collapses into ErrInvalidRefreshToken.
// The caller still owns the equality check against the stored value.
func (s *TokenService) ParseRefreshSubject(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.refreshSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidRefreshToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidRefreshToken
	}
	return sub, nil
}
