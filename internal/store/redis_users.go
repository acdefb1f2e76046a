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

// redisUserRepository is the Redis-backed implementation of
// [UserRepository]. Records are stored as JSON blobs; the email index is a
// hash of normalized email to user id, which makes duplicate detection a
// single HSetNX round-trip.
type redisUserRepository struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisUserRepository constructs a [UserRepository] backed by the given
// Redis client.
func NewRedisUserRepository(client *redis.Client, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating redis user repository")
	return &redisUserRepository{client: client, logger: logger}
}

func (r *redisUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	raw, err := r.client.Get(ctx, userKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("unexpected store error: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, fmt.Errorf("decode user record: %w", err)
	}
	return user, nil
}

func (r *redisUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	id, err := r.client.HGet(ctx, userEmailIndexKey, models.NormalizeEmail(email)).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("unexpected store error: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *redisUserRepository) List(ctx context.Context) ([]models.User, error) {
	ids, err := r.client.SMembers(ctx, userIDSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("unexpected store error: %w", err)
	}

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrUserNotFound) {
			// Index can momentarily outlive a deleted record.
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *redisUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	email := models.NormalizeEmail(user.Email)
	claimed, err := r.client.HSetNX(ctx, userEmailIndexKey, email, user.ID).Result()
	if err != nil {
		return models.User{}, fmt.Errorf("unexpected store error: %w", err)
	}
	if !claimed {
		log.Debug().Str("email", email).Msg("email index already claimed")
		return models.User{}, ErrDuplicateEmail
	}

	if err := r.write(ctx, user); err != nil {
		// Roll the index claim back so a failed write does not poison the email.
		_ = r.client.HDel(ctx, userEmailIndexKey, email).Err()
		return models.User{}, err
	}

	return user, nil
}

func (r *redisUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	existing, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}

	oldEmail := models.NormalizeEmail(existing.Email)
	newEmail := models.NormalizeEmail(user.Email)
	if oldEmail != newEmail {
		claimed, err := r.client.HSetNX(ctx, userEmailIndexKey, newEmail, user.ID).Result()
		if err != nil {
			return models.User{}, fmt.Errorf("unexpected store error: %w", err)
		}
		if !claimed {
			return models.User{}, ErrDuplicateEmail
		}
		if err := r.client.HDel(ctx, userEmailIndexKey, oldEmail).Err(); err != nil {
			return models.User{}, fmt.Errorf("unexpected store error: %w", err)
		}
	}

	if err := r.write(ctx, user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *redisUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	user, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, userKey(id))
	pipe.HDel(ctx, userEmailIndexKey, models.NormalizeEmail(user.Email))
	pipe.SRem(ctx, userIDSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("unexpected store error: %w", err)
	}

	return true, nil
}

func (r *redisUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.client.SCard(ctx, userIDSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("unexpected store error: %w", err)
	}
	return n, nil
}

func (r *redisUserRepository) write(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKey(user.ID), raw, 0)
	pipe.SAdd(ctx, userIDSetKey, user.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("unexpected store error: %w", err)
	}

	return nil
}
