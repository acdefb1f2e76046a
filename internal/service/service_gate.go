// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/models"
)

// gateService is the concrete implementation of [GateService]. Every request
// past the login endpoints goes through Authenticate or Authorize; there is
// no second path to a models.User.
type gateService struct {
	tokens TokenService
	users  UserService

	devMode       bool
	autoBootstrap bool

	logger *logger.Logger
}

// NewGateService constructs a [GateService] over the token service and the
// user directory.
func NewGateService(tokens TokenService, users UserService, cfg config.App, logger *logger.Logger) GateService {
	return &gateService{
		tokens:        tokens,
		users:         users,
		devMode:       cfg.DevMode,
		autoBootstrap: cfg.AutoBootstrap,
		logger:        logger,
	}
}

// Authenticate resolves rawToken into the live user record.
//
// The stored user is re-read on every call: role changes, deletions, and
// token-version bumps take effect immediately, not at token expiry. A
// version mismatch fails with ErrSessionRevoked; every other failure
// collapses into ErrAuthRequired with the detail kept in the wrap for
// internal logs only.
func (g *gateService) Authenticate(ctx context.Context, rawToken string) (models.User, error) {
	log := logger.FromContext(ctx)

	if rawToken == "" {
		if g.devMode && g.autoBootstrap {
			user, err := g.users.EnsureBootstrapAdmin(ctx)
			if err != nil {
				log.Err(err).Msg("auto-bootstrap failed")
				return models.User{}, fmt.Errorf("%w: auto-bootstrap failed", ErrAuthRequired)
			}
			log.Warn().Str("id", user.ID).
				Msg("INSECURE: request without session auto-authenticated as bootstrap admin (dev mode only)")
			return user, nil
		}
		return models.User{}, fmt.Errorf("%w: no session token", ErrAuthRequired)
	}

	claims, err := g.tokens.Verify(rawToken)
	if err != nil {
		log.Debug().Err(err).Msg("session token rejected")
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthRequired, err)
	}

	user, err := g.users.GetByID(ctx, claims.SubjectUserID())
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug().Str("id", claims.SubjectUserID()).Msg("session token for deleted user")
		return models.User{}, fmt.Errorf("%w: user no longer exists", ErrAuthRequired)
	}
	if err != nil {
		log.Err(err).Msg("user lookup during authentication failed")
		return models.User{}, fmt.Errorf("user lookup during authentication failed: %w", err)
	}

	if claims.TokenVersion != user.TokenVersion {
		log.Debug().Str("id", user.ID).
			Int64("token_version", claims.TokenVersion).
			Int64("current_version", user.TokenVersion).
			Msg("session token version mismatch")
		return models.User{}, ErrSessionRevoked
	}

	return user, nil
}

// Authorize authenticates and then enforces perm against the user's role.
func (g *gateService) Authorize(ctx context.Context, rawToken string, perm models.Permission) (models.User, error) {
	user, err := g.Authenticate(ctx, rawToken)
	if err != nil {
		return models.User{}, err
	}

	if !user.Role.Has(perm) {
		logger.FromContext(ctx).Debug().
			Str("id", user.ID).
			Str("role", string(user.Role)).
			Str("permission", string(perm)).
			Msg("permission denied")
		return models.User{}, ErrForbidden
	}

	return user, nil
}
