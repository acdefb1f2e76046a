// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"sync"

	"github.com/askdb/askdb/models"
)

// memoryCredentialRepository is the in-process fallback implementation of
// [CredentialRepository]. Semantics are identical to the Redis-backed store,
// but nothing survives a restart. Safe for concurrent use.
type memoryCredentialRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.DatabaseCredential
	byOwner map[string]map[string]struct{}
}

// NewMemoryCredentialRepository constructs the non-durable in-memory
// [CredentialRepository].
func NewMemoryCredentialRepository() CredentialRepository {
	return &memoryCredentialRepository{
		byID:    make(map[string]models.DatabaseCredential),
		byOwner: make(map[string]map[string]struct{}),
	}
}

func (r *memoryCredentialRepository) GetByID(ctx context.Context, id, ownerID string) (models.DatabaseCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.byID[id]
	// Ownership mismatch is reported as not-found on purpose.
	if !ok || cred.OwnerUserID != ownerID {
		return models.DatabaseCredential{}, ErrCredentialNotFound
	}
	return cred, nil
}

func (r *memoryCredentialRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.DatabaseCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	creds := make([]models.DatabaseCredential, 0, len(ids))
	for id := range ids {
		if cred, ok := r.byID[id]; ok && cred.OwnerUserID == ownerID {
			creds = append(creds, cred)
		}
	}
	return creds, nil
}

func (r *memoryCredentialRepository) Create(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cred.ID] = cred
	if r.byOwner[cred.OwnerUserID] == nil {
		r.byOwner[cred.OwnerUserID] = make(map[string]struct{})
	}
	r.byOwner[cred.OwnerUserID][cred.ID] = struct{}{}
	return cred, nil
}

func (r *memoryCredentialRepository) Update(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[cred.ID]
	if !ok || existing.OwnerUserID != cred.OwnerUserID {
		return models.DatabaseCredential{}, ErrCredentialNotFound
	}

	r.byID[cred.ID] = cred
	return cred, nil
}

func (r *memoryCredentialRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.byID[id]
	if !ok || cred.OwnerUserID != ownerID {
		return false, nil
	}

	delete(r.byID, id)
	delete(r.byOwner[ownerID], id)
	return true, nil
}
