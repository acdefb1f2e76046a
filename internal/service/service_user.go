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
	"github.com/google/uuid"
)

// userService is the concrete implementation of [UserService]. It owns all
// password-material handling for accounts: hashing with a fresh per-user
// salt on create and on every password change, and the token-version bump
// that revokes previously issued sessions.
type userService struct {
	userRepository store.UserRepository
	hasher         *crypto.Hasher

	bootstrapEmail    string
	bootstrapPassword string

	logger *logger.Logger
}

// NewUserService constructs a [UserService] wired to the given repository
// and populated with bootstrap settings from cfg.
func NewUserService(userRepository store.UserRepository, hasher *crypto.Hasher, cfg config.App, logger *logger.Logger) UserService {
	return &userService{
		userRepository:    userRepository,
		hasher:            hasher,
		bootstrapEmail:    cfg.BootstrapEmail,
		bootstrapPassword: cfg.BootstrapPassword,
		logger:            logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.userRepository.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.userRepository.GetByEmail(ctx, email)
}

// List returns public projections only; hash and salt never leave the
// directory.
func (s *userService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.userRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return public, nil
}

func (s *userService) Create(ctx context.Context, input models.UserInput) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	if err := validateUserInput(input, true); err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.newUser(input)
	if err != nil {
		return models.PublicUser{}, err
	}

	created, err := s.userRepository.Create(ctx, user)
	if err != nil {
		log.Err(err).Str("email", models.NormalizeEmail(input.Email)).Msg("user creation ended with error")
		return models.PublicUser{}, err
	}

	return created.Public(), nil
}

// Update applies input to an existing account. A non-empty password
// triggers a re-hash with a fresh salt and a token-version increment, which
// invalidates every previously issued session token for that user.
func (s *userService) Update(ctx context.Context, id string, input models.UserInput) (models.PublicUser, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}

	if input.Email != "" {
		user.Email = models.NormalizeEmail(input.Email)
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		if !input.Role.Valid() {
			return models.PublicUser{}, NewValidationError(map[string]string{"role": "unknown role"})
		}
		user.Role = input.Role
	}

	if input.Password != "" {
		if err := s.setPassword(&user, input.Password); err != nil {
			return models.PublicUser{}, err
		}
		user.TokenVersion++
		log.Info().Str("id", user.ID).Msg("password changed: all existing sessions revoked")
	}

	user.UpdatedAt = time.Now()

	updated, err := s.userRepository.Update(ctx, user)
	if err != nil {
		log.Err(err).Str("id", id).Msg("user update ended with error")
		return models.PublicUser{}, err
	}

	return updated.Public(), nil
}

func (s *userService) Delete(ctx context.Context, id string) (bool, error) {
	return s.userRepository.Delete(ctx, id)
}

// BumpTokenVersion revokes every outstanding session of the user without
// touching the password.
func (s *userService) BumpTokenVersion(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.TokenVersion++
	user.UpdatedAt = time.Now()

	if _, err := s.userRepository.Update(ctx, user); err != nil {
		return fmt.Errorf("bumping token version failed: %w", err)
	}

	log.Info().Str("id", id).Int64("token_version", user.TokenVersion).Msg("sessions revoked")
	return nil
}

// EnsureBootstrapAdmin implements the first-run guarantee: when the user
// store is empty the configured admin account is created on the spot. A
// concurrent create that loses the race falls back to fetching the winner.
func (s *userService) EnsureBootstrapAdmin(ctx context.Context) (models.User, error) {
	count, err := s.userRepository.Count(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("counting users failed: %w", err)
	}
	if count > 0 {
		return s.userRepository.GetByEmail(ctx, s.bootstrapEmail)
	}

	admin, err := s.newUser(models.UserInput{
		Email:    s.bootstrapEmail,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		Password: s.bootstrapPassword,
	})
	if err != nil {
		return models.User{}, err
	}

	created, err := s.userRepository.Create(ctx, admin)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return s.userRepository.GetByEmail(ctx, s.bootstrapEmail)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("bootstrap admin creation failed: %w", err)
	}

	s.logger.Warn().Str("email", created.Email).Msg("bootstrap admin account created on first access")
	return created, nil
}

func (s *userService) newUser(input models.UserInput) (models.User, error) {
	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !role.Valid() {
		return models.User{}, NewValidationError(map[string]string{"role": "unknown role"})
	}

	now := time.Now()
	user := models.User{
		ID:        uuid.NewString(),
		Email:     models.NormalizeEmail(input.Email),
		Name:      input.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.setPassword(&user, input.Password); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// setPassword generates a fresh salt and replaces the user's password
// material in place.
func (s *userService) setPassword(user *models.User, password string) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}

	digest, err := s.hasher.Hash(password, salt)
	if err != nil {
		return err
	}

	user.PasswordSalt = salt
	user.PasswordHash = digest
	return nil
}

func validateUserInput(input models.UserInput, isCreate bool) error {
	fields := make(map[string]string)

	if models.NormalizeEmail(input.Email) == "" {
		fields["email"] = "is required"
	}
	if isCreate && input.Password == "" {
		fields["password"] = "is required"
	}
	if input.Role != "" && !input.Role.Valid() {
		fields["role"] = "unknown role"
	}

	return NewValidationError(fields)
}
