// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/models"
)

// authService is the concrete implementation of [AuthService]. It verifies
// login credentials against the directory and issues session tokens.
type authService struct {
	users  UserService
	hasher *crypto.Hasher
	tokens TokenService

	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the user directory
// and token service, configured from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(users UserService, hasher *crypto.Hasher, tokens TokenService, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Login authenticates an email/password pair.
//
// The bootstrap admin is ensured first, so a fresh deployment can always
// log in. Unknown email and wrong password collapse into the same
// ErrWrongPassword so the two cases are indistinguishable to a caller
// probing for accounts.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	if models.NormalizeEmail(email) == "" || password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	// The bootstrap account may have been deleted after other users were
	// created; that is not a login failure.
	if _, err := a.users.EnsureBootstrapAdmin(ctx); err != nil && !errors.Is(err, store.ErrUserNotFound) {
		log.Err(err).Msg("bootstrap admin check failed")
		return models.User{}, fmt.Errorf("bootstrap admin check failed: %w", err)
	}

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Debug().Msg("login attempt for unknown email")
		return models.User{}, ErrWrongPassword
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		log.Err(err).Str("id", user.ID).Msg("password verification failed")
		return models.User{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		log.Debug().Str("id", user.ID).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return user, nil
}

// CreateToken issues a signed session token for user with the configured
// TTL.
func (a *authService) CreateToken(ctx context.Context, user models.User) (string, error) {
	signed, err := a.tokens.Issue(user, a.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("token creation failed: %w", err)
	}
	return signed, nil
}

func (a *authService) TokenTTL() time.Duration {
	return a.tokenDuration
}
