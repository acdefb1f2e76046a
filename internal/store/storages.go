// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
)

// Storages aggregates the concrete repositories chosen at startup. Durable
// reports whether the Redis backend is in use; when false the process runs
// on the in-memory fallback and loses all state on restart.
type Storages struct {
	Users       UserRepository
	Credentials CredentialRepository
	Durable     bool
}

// NewStorages wires the durable Redis-backed repositories when the
// configured backend is reachable, and degrades to the in-memory fallback
// with a warning when it is not. The process never refuses to start because
// the durable store is away.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) *Storages {
	if cfg.RedisURL == "" {
		log.Warn().Msg("no durable store configured: using non-durable in-memory storage")
		return memoryStorages()
	}

	client, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("durable store unreachable: degrading to non-durable in-memory storage")
		return memoryStorages()
	}

	return &Storages{
		Users:       NewRedisUserRepository(client, log),
		Credentials: NewRedisCredentialRepository(client, log),
		Durable:     true,
	}
}

func memoryStorages() *Storages {
	return &Storages{
		Users:       NewMemoryUserRepository(),
		Credentials: NewMemoryCredentialRepository(),
	}
}
