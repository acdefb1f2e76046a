// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/models"
)

// credentialService is the concrete implementation of [CredentialService].
// Database passwords are encrypted before they reach the repository and
// decrypted only inside ResolveForDispatch.
type credentialService struct {
	repo   store.CredentialRepository
	cipher *crypto.Cipher

	logger *logger.Logger
}

// NewCredentialService constructs a [CredentialService] over repo, using
// cipher for at-rest password encryption.
func NewCredentialService(repo store.CredentialRepository, cipher *crypto.Cipher, logger *logger.Logger) CredentialService {
	return &credentialService{
		repo:   repo,
		cipher: cipher,
		logger: logger,
	}
}

func (c *credentialService) GetByID(ctx context.Context, id, ownerID string) (models.PublicCredential, error) {
	cred, err := c.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return models.PublicCredential{}, err
	}
	return cred.Public(), nil
}

func (c *credentialService) ListByOwner(ctx context.Context, ownerID string) ([]models.PublicCredential, error) {
	creds, err := c.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("credential list failed: %w", err)
	}

	public := make([]models.PublicCredential, 0, len(creds))
	for _, cred := range creds {
		public = append(public, cred.Public())
	}
	return public, nil
}

// Create validates input, encrypts the password and persists a new
// owner-scoped record. The plaintext password is required here, unlike
// Update where an empty password keeps the stored ciphertext.
func (c *credentialService) Create(ctx context.Context, input models.CredentialInput, ownerID string) (models.PublicCredential, error) {
	log := logger.FromContext(ctx)

	if err := validateCredentialInput(input, true); err != nil {
		return models.PublicCredential{}, err
	}

	encrypted, err := c.cipher.Encrypt(input.Password)
	if err != nil {
		log.Err(err).Msg("credential password encryption failed")
		return models.PublicCredential{}, fmt.Errorf("credential password encryption failed: %w", err)
	}

	now := time.Now().UTC()
	cred := models.DatabaseCredential{
		ID:                uuid.NewString(),
		OwnerUserID:       ownerID,
		Name:              strings.TrimSpace(input.Name),
		Type:              input.Type,
		Host:              strings.TrimSpace(input.Host),
		Port:              input.Port,
		Database:          strings.TrimSpace(input.Database),
		Username:          input.Username,
		EncryptedPassword: encrypted,
		SSL:               input.SSL,
		Schema:            input.Schema,
		Warehouse:         input.Warehouse,
		Role:              input.Role,
		Account:           input.Account,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := c.repo.Create(ctx, cred)
	if err != nil {
		log.Err(err).Msg("credential creation failed")
		return models.PublicCredential{}, fmt.Errorf("credential creation failed: %w", err)
	}

	log.Info().Str("id", created.ID).Str("type", string(created.Type)).Msg("credential created")
	return created.Public(), nil
}

// Update rewrites a stored credential. An empty input password keeps the
// existing ciphertext; a non-empty one is re-encrypted with a fresh nonce.
func (c *credentialService) Update(ctx context.Context, id string, input models.CredentialInput, ownerID string) (models.PublicCredential, error) {
	log := logger.FromContext(ctx)

	if err := validateCredentialInput(input, false); err != nil {
		return models.PublicCredential{}, err
	}

	cred, err := c.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return models.PublicCredential{}, err
	}

	cred.Name = strings.TrimSpace(input.Name)
	cred.Type = input.Type
	cred.Host = strings.TrimSpace(input.Host)
	cred.Port = input.Port
	cred.Database = strings.TrimSpace(input.Database)
	cred.Username = input.Username
	cred.SSL = input.SSL
	cred.Schema = input.Schema
	cred.Warehouse = input.Warehouse
	cred.Role = input.Role
	cred.Account = input.Account
	cred.UpdatedAt = time.Now().UTC()

	if input.Password != "" {
		encrypted, err := c.cipher.Encrypt(input.Password)
		if err != nil {
			log.Err(err).Str("id", id).Msg("credential password encryption failed")
			return models.PublicCredential{}, fmt.Errorf("credential password encryption failed: %w", err)
		}
		cred.EncryptedPassword = encrypted
	}

	updated, err := c.repo.Update(ctx, cred)
	if err != nil {
		log.Err(err).Str("id", id).Msg("credential update failed")
		return models.PublicCredential{}, fmt.Errorf("credential update failed: %w", err)
	}

	log.Info().Str("id", updated.ID).Msg("credential updated")
	return updated.Public(), nil
}

// Delete removes a credential. Deleting an absent or foreign record is not
// an error; the bool reports whether anything was removed.
func (c *credentialService) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	deleted, err := c.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("credential deletion failed: %w", err)
	}
	if deleted {
		logger.FromContext(ctx).Info().Str("id", id).Msg("credential deleted")
	}
	return deleted, nil
}

// ResolveForDispatch loads the full record and decrypts its password for a
// single downstream call. The returned plaintext must not outlive that call
// and must never reach logs or storage.
func (c *credentialService) ResolveForDispatch(ctx context.Context, id, ownerID string) (models.DatabaseCredential, string, error) {
	log := logger.FromContext(ctx)

	cred, err := c.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return models.DatabaseCredential{}, "", err
	}

	password, err := c.cipher.Decrypt(cred.EncryptedPassword)
	if err != nil {
		log.Err(err).Str("id", id).Msg("credential decryption failed")
		return models.DatabaseCredential{}, "", fmt.Errorf("credential decryption failed: %w", err)
	}

	return cred, password, nil
}

// validateCredentialInput enforces the vault's field rules. requirePassword
// distinguishes create (password mandatory) from update (optional).
func validateCredentialInput(input models.CredentialInput, requirePassword bool) error {
	fields := make(map[string]string)

	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if !input.Type.Valid() {
		fields["type"] = "type must be one of: postgresql, mysql, snowflake, sqlite"
	}
	if input.Username == "" {
		fields["username"] = "username is required"
	}
	if strings.TrimSpace(input.Database) == "" {
		fields["database"] = "database is required"
	}
	if requirePassword && input.Password == "" {
		fields["password"] = "password is required"
	}

	// SQLite targets are file-backed, so host/port do not apply.
	if input.Type.Valid() && input.Type != models.DatabaseSQLite {
		if strings.TrimSpace(input.Host) == "" {
			fields["host"] = "host is required"
		}
		if input.Port < 1 || input.Port > 65535 {
			fields["port"] = "port must be between 1 and 65535"
		}
	}

	if input.Type == models.DatabaseSnowflake {
		if input.Account == "" {
			fields["account"] = "account is required for snowflake"
		}
		if input.Warehouse == "" {
			fields["warehouse"] = "warehouse is required for snowflake"
		}
	}

	return NewValidationError(fields)
}
