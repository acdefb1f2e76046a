// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/dispatch"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/models"
)

// queryService is the concrete implementation of [QueryService]: it resolves
// the credential, acquires a pooled connection slot, dispatches to the
// downstream engine and records latency on the way back.
type queryService struct {
	credentials CredentialService
	pool        *pool.Manager
	engine      adapter.EngineAdapter

	mockMode bool

	logger *logger.Logger
}

// NewQueryService constructs a [QueryService] over the credential vault, the
// connection pool manager and the engine adapter.
func NewQueryService(credentials CredentialService, p *pool.Manager, engine adapter.EngineAdapter, cfg config.Engine, logger *logger.Logger) QueryService {
	return &queryService{
		credentials: credentials,
		pool:        p,
		engine:      engine,
		mockMode:    cfg.MockMode,
		logger:      logger,
	}
}

// Run executes a natural-language query for user.
//
// The decrypted password lives only on this call's stack: it goes into the
// connection string handed to the engine and is never logged or retained.
func (q *queryService) Run(ctx context.Context, user models.User, input models.QueryInput) (models.QueryResult, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(input.Prompt) == "" {
		return models.QueryResult{}, NewValidationError(map[string]string{"prompt": "prompt is required"})
	}
	if input.CredentialID == "" {
		return models.QueryResult{}, NewValidationError(map[string]string{"credentialId": "credentialId is required"})
	}

	cred, password, err := q.credentials.ResolveForDispatch(ctx, input.CredentialID, user.ID)
	if err != nil {
		return models.QueryResult{}, err
	}

	target := connectionTarget(cred)

	conn, err := q.pool.Acquire(target, input.ConnectionID)
	if err != nil {
		return models.QueryResult{}, err
	}
	defer q.pool.Release(conn.ID)

	start := time.Now()
	resp, err := q.engine.Query(ctx, input.Prompt, target, connectionString(cred, password))
	q.pool.RecordLatency(time.Since(start))
	if err != nil {
		if q.mockMode && dispatchFailed(err) {
			log.Warn().Err(err).Str("connection_id", conn.ID).
				Msg("engine unavailable: serving mocked query result (mock mode)")
			return mockedQueryResult(input.Prompt, conn.ID), nil
		}
		log.Err(err).Str("connection_id", conn.ID).Msg("query dispatch failed")
		return models.QueryResult{}, err
	}

	return models.QueryResult{
		Data:            resp.Data,
		Query:           resp.Query,
		ExecutionTimeMs: resp.ExecutionTime,
		ConnectionID:    conn.ID,
	}, nil
}

// TestConnection dispatches a connectivity probe for the given credential.
// No pooled slot is consumed: the probe is about the credential, not about
// query capacity.
func (q *queryService) TestConnection(ctx context.Context, user models.User, credentialID string) (models.TestConnectionResult, error) {
	log := logger.FromContext(ctx)

	if credentialID == "" {
		return models.TestConnectionResult{}, NewValidationError(map[string]string{"credentialId": "credentialId is required"})
	}

	cred, password, err := q.credentials.ResolveForDispatch(ctx, credentialID, user.ID)
	if err != nil {
		return models.TestConnectionResult{}, err
	}

	start := time.Now()
	resp, err := q.engine.TestConnection(ctx, connectionTarget(cred), connectionString(cred, password))
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if q.mockMode && dispatchFailed(err) {
			log.Warn().Err(err).Msg("engine unavailable: reporting mocked connection test (mock mode)")
			return models.TestConnectionResult{OK: true, Message: "mocked: engine unavailable", LatencyMs: latency}, nil
		}
		log.Err(err).Str("credential_id", credentialID).Msg("connection test dispatch failed")
		return models.TestConnectionResult{}, err
	}

	return models.TestConnectionResult{OK: resp.OK, Message: resp.Message, LatencyMs: latency}, nil
}

// SchemaAction forwards a schema-cache refresh or clear to the engine.
func (q *queryService) SchemaAction(ctx context.Context, user models.User, req models.SchemaRequest) (models.SchemaResult, error) {
	log := logger.FromContext(ctx)

	fields := make(map[string]string)
	if req.CredentialID == "" {
		fields["credentialId"] = "credentialId is required"
	}
	if req.Action != models.SchemaRefresh && req.Action != models.SchemaClear {
		fields["action"] = "action must be refresh or clear"
	}
	if err := NewValidationError(fields); err != nil {
		return models.SchemaResult{}, err
	}

	cred, _, err := q.credentials.ResolveForDispatch(ctx, req.CredentialID, user.ID)
	if err != nil {
		return models.SchemaResult{}, err
	}

	resp, err := q.engine.Schema(ctx, connectionTarget(cred), string(req.Action))
	if err != nil {
		log.Err(err).Str("credential_id", req.CredentialID).Msg("schema action dispatch failed")
		return models.SchemaResult{}, err
	}

	return models.SchemaResult{OK: resp.OK, Message: resp.Message}, nil
}

func (q *queryService) PoolStats() models.PoolStats {
	return q.pool.Stats()
}

// dispatchFailed reports whether err is an engine-reachability failure, the
// only class of error the mock fallback is allowed to absorb. A dispatch
// error for a client-level rejection or an undecodable 2xx body means the
// engine answered, so it propagates like any other error.
func dispatchFailed(err error) bool {
	if errors.Is(err, dispatch.ErrCircuitOpen) {
		return true
	}
	var de *dispatch.DispatchError
	return errors.As(err, &de) && de.Unreachable()
}

// connectionTarget is the pool's identity key for a credential: same target,
// same reusable slot. It carries no secret material and is safe to log.
func connectionTarget(cred models.DatabaseCredential) string {
	if cred.Type == models.DatabaseSQLite {
		return fmt.Sprintf("%s:%s", cred.Type, cred.Database)
	}
	return fmt.Sprintf("%s:%s:%d/%s", cred.Type, cred.Host, cred.Port, cred.Database)
}

// connectionString assembles the engine-facing DSN. It embeds the decrypted
// password and must never be logged.
func connectionString(cred models.DatabaseCredential, password string) string {
	switch cred.Type {
	case models.DatabaseSQLite:
		return "sqlite:///" + cred.Database

	case models.DatabaseSnowflake:
		dsn := url.URL{
			Scheme: "snowflake",
			User:   url.UserPassword(cred.Username, password),
			Host:   cred.Account,
			Path:   "/" + cred.Database,
		}
		params := url.Values{}
		if cred.Warehouse != "" {
			params.Set("warehouse", cred.Warehouse)
		}
		if cred.Role != "" {
			params.Set("role", cred.Role)
		}
		if cred.Schema != "" {
			params.Set("schema", cred.Schema)
		}
		dsn.RawQuery = params.Encode()
		return dsn.String()

	case models.DatabaseMySQL:
		dsn := url.URL{
			Scheme: "mysql",
			User:   url.UserPassword(cred.Username, password),
			Host:   cred.Host + ":" + strconv.Itoa(cred.Port),
			Path:   "/" + cred.Database,
		}
		if cred.SSL {
			dsn.RawQuery = url.Values{"tls": {"true"}}.Encode()
		}
		return dsn.String()

	default: // postgresql
		dsn := url.URL{
			Scheme: "postgresql",
			User:   url.UserPassword(cred.Username, password),
			Host:   cred.Host + ":" + strconv.Itoa(cred.Port),
			Path:   "/" + cred.Database,
		}
		params := url.Values{}
		if cred.SSL {
			params.Set("sslmode", "require")
		} else {
			params.Set("sslmode", "disable")
		}
		if cred.Schema != "" {
			params.Set("search_path", cred.Schema)
		}
		dsn.RawQuery = params.Encode()
		return dsn.String()
	}
}

// mockedQueryResult fabricates a clearly labeled placeholder result for mock
// mode, used only when the engine is unreachable.
func mockedQueryResult(prompt, connectionID string) models.QueryResult {
	return models.QueryResult{
		Data: []map[string]any{
			{"id": 1, "name": "Sample Row 1", "value": 100},
			{"id": 2, "name": "Sample Row 2", "value": 250},
			{"id": 3, "name": "Sample Row 3", "value": 175},
		},
		Query:           "-- mocked result (engine unavailable)\n-- prompt: " + prompt,
		ExecutionTimeMs: 0,
		ConnectionID:    connectionID,
		Mocked:          true,
	}
}
