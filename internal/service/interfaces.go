// SPDX-License-Identifier: Apache-2.0

// Package service implements the business rules of the askdb core: login,
// the user directory, the credential vault, the authorization gate, and the
// query orchestration pipeline. Every operation that touches stored secrets
// or the downstream engine flows through this layer after the HTTP boundary
// has decoded the request.
package service

import (
	"context"
	"time"

	"github.com/askdb/askdb/models"
)

// TokenService is the session-token dependency of the auth service and the
// authorization gate. Implemented by internal/token.Service.
type TokenService interface {
	Issue(user models.User, ttl time.Duration) (string, error)
	Verify(raw string) (models.SessionClaims, error)
}

// AuthService authenticates login credentials and issues session tokens.
type AuthService interface {
	// Login verifies email+password and returns the matching user.
	// Unknown email and wrong password both return ErrWrongPassword.
	Login(ctx context.Context, email, password string) (models.User, error)

	// CreateToken issues a signed session token for an authenticated user.
	CreateToken(ctx context.Context, user models.User) (string, error)

	// TokenTTL is the configured session lifetime, exposed so the HTTP
	// layer can align the cookie max-age with the token expiry.
	TokenTTL() time.Duration
}

// UserService is the user directory: account CRUD, password rotation, and
// session revocation via token-version bumps.
type UserService interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.PublicUser, error)
	Create(ctx context.Context, input models.UserInput) (models.PublicUser, error)
	Update(ctx context.Context, id string, input models.UserInput) (models.PublicUser, error)
	Delete(ctx context.Context, id string) (bool, error)
	BumpTokenVersion(ctx context.Context, id string) error

	// EnsureBootstrapAdmin lazily materializes the first admin account when
	// the store is empty, so the system is never unreachable on first run.
	EnsureBootstrapAdmin(ctx context.Context) (models.User, error)
}

// CredentialService is the credential vault: owner-scoped CRUD with
// validation and at-rest encryption of database passwords.
type CredentialService interface {
	GetByID(ctx context.Context, id, ownerID string) (models.PublicCredential, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.PublicCredential, error)
	Create(ctx context.Context, input models.CredentialInput, ownerID string) (models.PublicCredential, error)
	Update(ctx context.Context, id string, input models.CredentialInput, ownerID string) (models.PublicCredential, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)

	// ResolveForDispatch returns the full record plus the decrypted
	// password for a single dispatch call. The plaintext must never be
	// logged or cached beyond that call's lifetime.
	ResolveForDispatch(ctx context.Context, id, ownerID string) (models.DatabaseCredential, string, error)
}

// GateService is the authorization gate every inbound request passes
// through: token verification, live-user cross-check, and role-permission
// enforcement.
type GateService interface {
	// Authenticate resolves a raw session token into the live user record.
	// Failures: ErrAuthRequired (no/invalid/expired token, user gone) or
	// ErrSessionRevoked (token-version mismatch).
	Authenticate(ctx context.Context, rawToken string) (models.User, error)

	// Authorize runs Authenticate and then checks the permission against
	// the user's role, failing with ErrForbidden when it is not granted.
	Authorize(ctx context.Context, rawToken string, perm models.Permission) (models.User, error)
}

// QueryService orchestrates credential resolution, pooled acquisition, and
// engine dispatch for query execution and connectivity probes.
type QueryService interface {
	Run(ctx context.Context, user models.User, input models.QueryInput) (models.QueryResult, error)
	TestConnection(ctx context.Context, user models.User, credentialID string) (models.TestConnectionResult, error)
	SchemaAction(ctx context.Context, user models.User, req models.SchemaRequest) (models.SchemaResult, error)
	PoolStats() models.PoolStats
}
