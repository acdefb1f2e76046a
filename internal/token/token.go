// SPDX-License-Identifier: Apache-2.0

// Package token issues and verifies signed, expiring session tokens. Tokens
// are stateless HMAC-SHA256 JWTs carrying the user's identity, role, and
// token version; revocation works purely through the token-version
// cross-check performed by the authorization gate.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service signs and verifies session tokens with a process-wide symmetric
// key. Safe for concurrent use: all state is read-only after construction.
type Service struct {
	signKey []byte
	issuer  string
}

// NewService constructs a token Service from the application configuration.
func NewService(cfg config.App) *Service {
	return &Service{
		signKey: []byte(cfg.TokenSignKey),
		issuer:  cfg.TokenIssuer,
	}
}

// Issue creates a signed session token for user, valid for ttl. All claims
// of the session model are embedded: subject user id, email, name, role, and
// the user's current token version.
func (s *Service) Issue(user models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: non-positive ttl %v", ttl)
	}

	now := time.Now()
	claims := models.SessionClaims{
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature, issuer, expiry, and required claims of raw
// and returns the decoded session claims.
//
// Failure modes:
//   - [ErrTokenExpired] — the exp claim has passed;
//   - [ErrTokenInvalid] — signature mismatch, wrong algorithm or issuer,
//     malformed payload, or a missing required claim.
func (s *Service) Verify(raw string) (models.SessionClaims, error) {
	var claims models.SessionClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// jwt v5 joins validation failures; expiry stays distinguishable.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.SessionClaims{}, ErrTokenExpired
		}
		return models.SessionClaims{}, ErrTokenInvalid
	}

	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() {
		return models.SessionClaims{}, ErrTokenInvalid
	}

	return claims, nil
}
