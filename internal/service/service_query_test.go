// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/dispatch"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/models"
)

type queryFixture struct {
	query       QueryService
	credentials CredentialService
	engine      *mockEngineAdapter
	pool        *pool.Manager
	owner       models.User
}

func newQueryFixture(t *testing.T, engineCfg config.Engine) *queryFixture {
	t.Helper()

	cipher, err := crypto.NewCipherFromConfig(config.App{DevMode: true}, logger.Nop())
	require.NoError(t, err)

	credentials := NewCredentialService(store.NewMemoryCredentialRepository(), cipher, logger.Nop())
	engine := &mockEngineAdapter{}
	p := pool.NewManager(config.Pool{MaxConnections: 4, IdleTimeout: time.Minute}, logger.Nop())

	return &queryFixture{
		query:       NewQueryService(credentials, p, engine, engineCfg, logger.Nop()),
		credentials: credentials,
		engine:      engine,
		pool:        p,
		owner:       models.User{ID: "owner-1", Role: models.RoleEditor},
	}
}

func (f *queryFixture) createCredential(t *testing.T) models.PublicCredential {
	t.Helper()

	created, err := f.credentials.Create(context.Background(), validPostgresInput(), f.owner.ID)
	require.NoError(t, err)
	return created
}

func TestQueryService_Run_Success(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)

	f.engine.queryFn = func(ctx context.Context, prompt, target, connectionString string) (adapter.QueryResponse, error) {
		assert.Equal(t, "show top customers", prompt)
		assert.Contains(t, target, "postgresql:db.internal:5432/orders")
		// The DSN carries the decrypted password for this one call.
		assert.Contains(t, connectionString, "db-secret")

		return adapter.QueryResponse{
			Data:          []map[string]any{{"customer": "acme"}},
			Query:         "SELECT ...",
			ExecutionTime: 42,
		}, nil
	}

	result, err := f.query.Run(context.Background(), f.owner, models.QueryInput{
		Prompt:       "show top customers",
		CredentialID: cred.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT ...", result.Query)
	assert.Equal(t, int64(42), result.ExecutionTimeMs)
	assert.NotEmpty(t, result.ConnectionID)
	assert.False(t, result.Mocked)
	require.Len(t, result.Data, 1)
}

func TestQueryService_Run_ValidatesInput(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})

	var validation *ValidationError

	_, err := f.query.Run(context.Background(), f.owner, models.QueryInput{CredentialID: "c1"})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "prompt")

	_, err = f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "x"})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "credentialId")
}

func TestQueryService_Run_ForeignCredentialLooksAbsent(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)

	stranger := models.User{ID: "owner-2", Role: models.RoleEditor}
	_, err := f.query.Run(context.Background(), stranger, models.QueryInput{
		Prompt:       "anything",
		CredentialID: cred.ID,
	})
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)
}

func TestQueryService_Run_ReleasesConnectionOnSuccessAndFailure(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)
	ctx := context.Background()

	input := models.QueryInput{Prompt: "q", CredentialID: cred.ID}

	_, err := f.query.Run(ctx, f.owner, input)
	require.NoError(t, err)

	f.engine.queryFn = func(context.Context, string, string, string) (adapter.QueryResponse, error) {
		return adapter.QueryResponse{}, &dispatch.DispatchError{Err: context.DeadlineExceeded}
	}
	_, err = f.query.Run(ctx, f.owner, input)
	require.Error(t, err)

	stats := f.pool.Stats()
	assert.Zero(t, stats.Active, "every exit path must release the slot")
	assert.Equal(t, 1, stats.Idle, "same-target runs reuse one idle slot")
	assert.Equal(t, int64(2), stats.TotalQueries)
}

func TestQueryService_Run_ReusesConnectionByID(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)
	ctx := context.Background()

	first, err := f.query.Run(ctx, f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
	require.NoError(t, err)

	second, err := f.query.Run(ctx, f.owner, models.QueryInput{
		Prompt:       "q2",
		CredentialID: cred.ID,
		ConnectionID: first.ConnectionID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ConnectionID, second.ConnectionID)
}

func TestQueryService_Run_EngineDown_NoMockMode(t *testing.T) {
	f := newQueryFixture(t, config.Engine{MockMode: false})
	cred := f.createCredential(t)

	f.engine.queryFn = func(context.Context, string, string, string) (adapter.QueryResponse, error) {
		return adapter.QueryResponse{}, dispatch.ErrCircuitOpen
	}

	_, err := f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
	assert.ErrorIs(t, err, dispatch.ErrCircuitOpen)
}

func TestQueryService_Run_EngineDown_MockMode(t *testing.T) {
	f := newQueryFixture(t, config.Engine{MockMode: true})
	cred := f.createCredential(t)

	f.engine.queryFn = func(context.Context, string, string, string) (adapter.QueryResponse, error) {
		return adapter.QueryResponse{}, &dispatch.DispatchError{LastStatus: 503, Err: assert.AnError}
	}

	result, err := f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
	require.NoError(t, err)

	assert.True(t, result.Mocked, "degraded results must be labeled")
	assert.NotEmpty(t, result.Data)
	assert.Contains(t, result.Query, "mocked")
}

func TestQueryService_Run_MockModeDoesNotAbsorbOtherErrors(t *testing.T) {
	f := newQueryFixture(t, config.Engine{MockMode: true})
	cred := f.createCredential(t)

	f.engine.queryFn = func(context.Context, string, string, string) (adapter.QueryResponse, error) {
		return adapter.QueryResponse{}, assert.AnError
	}

	_, err := f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
	assert.ErrorIs(t, err, assert.AnError, "only reachability failures fall back to mock rows")
}

func TestQueryService_Run_MockModeDoesNotAbsorbEngineRejections(t *testing.T) {
	f := newQueryFixture(t, config.Engine{MockMode: true})
	cred := f.createCredential(t)

	// The engine answered; these failures are about the request or the
	// response body, not about reachability.
	rejections := map[string]*dispatch.DispatchError{
		"client rejection": {LastStatus: 400, Err: assert.AnError},
		"undecodable body": {LastStatus: 200, Err: assert.AnError},
	}

	for name, rejection := range rejections {
		t.Run(name, func(t *testing.T) {
			f.engine.queryFn = func(context.Context, string, string, string) (adapter.QueryResponse, error) {
				return adapter.QueryResponse{}, rejection
			}

			result, err := f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
			require.Error(t, err)

			var de *dispatch.DispatchError
			assert.ErrorAs(t, err, &de)
			assert.False(t, result.Mocked)
		})
	}
}

func TestQueryService_TestConnection(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)

	f.engine.testConnectionFn = func(ctx context.Context, target, connectionString string) (adapter.TestConnectionResponse, error) {
		assert.Contains(t, connectionString, "db-secret")
		return adapter.TestConnectionResponse{OK: true, Message: "connected"}, nil
	}

	result, err := f.query.TestConnection(context.Background(), f.owner, cred.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "connected", result.Message)
}

func TestQueryService_SchemaAction(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)

	f.engine.schemaFn = func(ctx context.Context, target, action string) (adapter.SchemaResponse, error) {
		assert.Equal(t, "refresh", action)
		return adapter.SchemaResponse{OK: true}, nil
	}

	result, err := f.query.SchemaAction(context.Background(), f.owner, models.SchemaRequest{
		CredentialID: cred.ID,
		Action:       models.SchemaRefresh,
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestQueryService_SchemaAction_Validation(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})

	_, err := f.query.SchemaAction(context.Background(), f.owner, models.SchemaRequest{Action: "drop"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "credentialId")
	assert.Contains(t, validation.Fields, "action")
}

func TestQueryService_PoolStats(t *testing.T) {
	f := newQueryFixture(t, config.Engine{})
	cred := f.createCredential(t)

	_, err := f.query.Run(context.Background(), f.owner, models.QueryInput{Prompt: "q", CredentialID: cred.ID})
	require.NoError(t, err)

	stats := f.query.PoolStats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, int64(1), stats.TotalQueries)
}

func TestConnectionString_Formats(t *testing.T) {
	pg := models.DatabaseCredential{
		Type: models.DatabasePostgreSQL, Host: "h", Port: 5432,
		Database: "db", Username: "u", SSL: true, Schema: "sales",
	}
	dsn := connectionString(pg, "p@ss w")
	assert.Contains(t, dsn, "postgresql://")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "search_path=sales")
	assert.NotContains(t, dsn, "p@ss w", "password must be url-escaped")

	sqlite := models.DatabaseCredential{Type: models.DatabaseSQLite, Database: "/data/app.db"}
	assert.Equal(t, "sqlite:////data/app.db", connectionString(sqlite, ""))

	sf := models.DatabaseCredential{
		Type: models.DatabaseSnowflake, Account: "xy12345",
		Database: "db", Username: "u", Warehouse: "wh", Role: "analyst",
	}
	sfDSN := connectionString(sf, "pw")
	assert.Contains(t, sfDSN, "snowflake://")
	assert.Contains(t, sfDSN, "xy12345")
	assert.Contains(t, sfDSN, "warehouse=wh")
	assert.Contains(t, sfDSN, "role=analyst")
}

func TestConnectionTarget_NoSecrets(t *testing.T) {
	cred := models.DatabaseCredential{
		Type: models.DatabasePostgreSQL, Host: "h", Port: 5432,
		Database: "db", Username: "u", EncryptedPassword: "blob",
	}
	target := connectionTarget(cred)
	assert.Equal(t, "postgresql:h:5432/db", target)
	assert.NotContains(t, target, "blob")
}
