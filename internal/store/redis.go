// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Key layout of the durable backend. Users are JSON blobs under per-id keys
// with a hash as the case-insensitive email index; credentials are JSON
// blobs with a per-owner id set as the secondary index.
const (
	userKeyPrefix      = "askdb:user:"
	userEmailIndexKey  = "askdb:users:email"
	userIDSetKey       = "askdb:users:ids"
	credentialPrefix   = "askdb:credential:"
	credentialOwnerSet = "askdb:credentials:owner:"
)

const connectTimeout = 3 * time.Second

// NewRedisClient opens and pings a Redis connection for the durable
// backend. A non-nil error means the caller should degrade to the in-memory
// stores.
func NewRedisClient(ctx context.Context, cfg config.Storage, log *logger.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	log.Info().Str("func", "NewRedisClient").Msg("connected to durable store successfully")
	return client, nil
}

func userKey(id string) string       { return userKeyPrefix + id }
func credentialKey(id string) string { return credentialPrefix + id }
func ownerSetKey(owner string) string {
	return credentialOwnerSet + owner
}
