// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"time"

	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	getByIDFn    func(ctx context.Context, id string) (models.User, error)
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	listFn       func(ctx context.Context) ([]models.User, error)
	createFn     func(ctx context.Context, user models.User) (models.User, error)
	updateFn     func(ctx context.Context, user models.User) (models.User, error)
	deleteFn     func(ctx context.Context, id string) (bool, error)
	countFn      func(ctx context.Context) (int64, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.CredentialRepository
// ─────────────────────────────────────────────

type mockCredentialRepository struct {
	getByIDFn     func(ctx context.Context, id, ownerID string) (models.DatabaseCredential, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]models.DatabaseCredential, error)
	createFn      func(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error)
	updateFn      func(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error)
	deleteFn      func(ctx context.Context, id, ownerID string) (bool, error)
}

func (m *mockCredentialRepository) GetByID(ctx context.Context, id, ownerID string) (models.DatabaseCredential, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id, ownerID)
	}
	return models.DatabaseCredential{}, nil
}

func (m *mockCredentialRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.DatabaseCredential, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCredentialRepository) Create(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	if m.createFn != nil {
		return m.createFn(ctx, cred)
	}
	return cred, nil
}

func (m *mockCredentialRepository) Update(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, cred)
	}
	return cred, nil
}

func (m *mockCredentialRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return false, nil
}

// ─────────────────────────────────────────────
// Mock: TokenService
// ─────────────────────────────────────────────

type mockTokenService struct {
	issueFn  func(user models.User, ttl time.Duration) (string, error)
	verifyFn func(raw string) (models.SessionClaims, error)
}

func (m *mockTokenService) Issue(user models.User, ttl time.Duration) (string, error) {
	if m.issueFn != nil {
		return m.issueFn(user, ttl)
	}
	return "signed-token", nil
}

func (m *mockTokenService) Verify(raw string) (models.SessionClaims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(raw)
	}
	return models.SessionClaims{}, nil
}

// ─────────────────────────────────────────────
// Mock: adapter.EngineAdapter
// ─────────────────────────────────────────────

type mockEngineAdapter struct {
	queryFn          func(ctx context.Context, prompt, target, connectionString string) (adapter.QueryResponse, error)
	testConnectionFn func(ctx context.Context, target, connectionString string) (adapter.TestConnectionResponse, error)
	schemaFn         func(ctx context.Context, target, action string) (adapter.SchemaResponse, error)
}

func (m *mockEngineAdapter) Query(ctx context.Context, prompt, target, connectionString string) (adapter.QueryResponse, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, prompt, target, connectionString)
	}
	return adapter.QueryResponse{}, nil
}

func (m *mockEngineAdapter) TestConnection(ctx context.Context, target, connectionString string) (adapter.TestConnectionResponse, error) {
	if m.testConnectionFn != nil {
		return m.testConnectionFn(ctx, target, connectionString)
	}
	return adapter.TestConnectionResponse{OK: true}, nil
}

func (m *mockEngineAdapter) Schema(ctx context.Context, target, action string) (adapter.SchemaResponse, error) {
	if m.schemaFn != nil {
		return m.schemaFn(ctx, target, action)
	}
	return adapter.SchemaResponse{OK: true}, nil
}

var errStorage = errors.New("storage error")
