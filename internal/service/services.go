// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/internal/store"
)

// Services aggregates every business-layer service, built once at startup
// and handed to the HTTP layer.
type Services struct {
	Auth        AuthService
	Users       UserService
	Credentials CredentialService
	Gate        GateService
	Query       QueryService
}

// Deps carries the infrastructure the service layer is built on.
type Deps struct {
	Storages *store.Storages
	Hasher   *crypto.Hasher
	Cipher   *crypto.Cipher
	Tokens   TokenService
	Pool     *pool.Manager
	Engine   adapter.EngineAdapter
}

// NewServices wires the full service graph from deps and cfg.
func NewServices(deps Deps, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	users := NewUserService(deps.Storages.Users, deps.Hasher, cfg.App, logger)
	credentials := NewCredentialService(deps.Storages.Credentials, deps.Cipher, logger)

	return &Services{
		Auth:        NewAuthService(users, deps.Hasher, deps.Tokens, cfg.App, logger),
		Users:       users,
		Credentials: credentials,
		Gate:        NewGateService(deps.Tokens, users, cfg.App, logger),
		Query:       NewQueryService(credentials, deps.Pool, deps.Engine, cfg.Engine, logger),
	}
}
