// SPDX-License-Identifier: Apache-2.0

// Package store implements persistence for the user directory and the
// credential vault. Both repositories have two implementations with
// identical semantics: a durable Redis-backed store and an in-process
// fallback that is not durable across restarts.
package store

import (
	"context"

	"github.com/askdb/askdb/models"
)

// UserRepository is the persistence contract of the user directory. Email
// lookups are case-insensitive; Create fails with [ErrDuplicateEmail] on a
// conflicting address.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// CredentialRepository is the persistence contract of the credential vault.
// Every read and write is owner-scoped: a record that exists but belongs to
// a different owner behaves exactly like an absent record
// ([ErrCredentialNotFound]), so ownership is never revealed by error shape.
type CredentialRepository interface {
	GetByID(ctx context.Context, id, ownerID string) (models.DatabaseCredential, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.DatabaseCredential, error)
	Create(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error)
	Update(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}
