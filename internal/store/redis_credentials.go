// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/models"
	"github.com/redis/go-redis/v9"
)

// redisCredentialRepository is the Redis-backed implementation of
// [CredentialRepository]. The per-owner id set is the secondary index used
// by ListByOwner; ownership itself is always re-checked against the record.
type redisCredentialRepository struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisCredentialRepository constructs a [CredentialRepository] backed by
// the given Redis client.
func NewRedisCredentialRepository(client *redis.Client, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating redis credential repository")
	return &redisCredentialRepository{client: client, logger: logger}
}

func (r *redisCredentialRepository) GetByID(ctx context.Context, id, ownerID string) (models.DatabaseCredential, error) {
	raw, err := r.client.Get(ctx, credentialKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return models.DatabaseCredential{}, ErrCredentialNotFound
	}
	if err != nil {
		return models.DatabaseCredential{}, fmt.Errorf("unexpected store error: %w", err)
	}

	var cred models.DatabaseCredential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return models.DatabaseCredential{}, fmt.Errorf("decode credential record: %w", err)
	}

	// Ownership mismatch is reported as not-found on purpose.
	if cred.OwnerUserID != ownerID {
		return models.DatabaseCredential{}, ErrCredentialNotFound
	}

	return cred, nil
}

func (r *redisCredentialRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.DatabaseCredential, error) {
	ids, err := r.client.SMembers(ctx, ownerSetKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("unexpected store error: %w", err)
	}

	creds := make([]models.DatabaseCredential, 0, len(ids))
	for _, id := range ids {
		cred, err := r.GetByID(ctx, id, ownerID)
		if errors.Is(err, ErrCredentialNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}

	return creds, nil
}

func (r *redisCredentialRepository) Create(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	if err := r.write(ctx, cred); err != nil {
		return models.DatabaseCredential{}, err
	}
	return cred, nil
}

func (r *redisCredentialRepository) Update(ctx context.Context, cred models.DatabaseCredential) (models.DatabaseCredential, error) {
	if _, err := r.GetByID(ctx, cred.ID, cred.OwnerUserID); err != nil {
		return models.DatabaseCredential{}, err
	}
	if err := r.write(ctx, cred); err != nil {
		return models.DatabaseCredential{}, err
	}
	return cred, nil
}

func (r *redisCredentialRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	if _, err := r.GetByID(ctx, id, ownerID); err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return false, nil
		}
		return false, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, credentialKey(id))
	pipe.SRem(ctx, ownerSetKey(ownerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("unexpected store error: %w", err)
	}

	return true, nil
}

func (r *redisCredentialRepository) write(ctx context.Context, cred models.DatabaseCredential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, credentialKey(cred.ID), raw, 0)
	pipe.SAdd(ctx, ownerSetKey(cred.OwnerUserID), cred.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("unexpected store error: %w", err)
	}

	return nil
}
