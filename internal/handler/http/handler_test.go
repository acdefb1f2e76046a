// SPDX-License-Identifier: Apache-2.0

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/internal/token"
	"github.com/askdb/askdb/models"
)

// stubEngine is a canned EngineAdapter for transport tests.
type stubEngine struct {
	queryErr error
}

func (s *stubEngine) Query(ctx context.Context, prompt, target, connectionString string) (adapter.QueryResponse, error) {
	if s.queryErr != nil {
		return adapter.QueryResponse{}, s.queryErr
	}
	return adapter.QueryResponse{
		Data:          []map[string]any{{"n": 1}},
		Query:         "SELECT 1",
		ExecutionTime: 5,
	}, nil
}

func (s *stubEngine) TestConnection(ctx context.Context, target, connectionString string) (adapter.TestConnectionResponse, error) {
	return adapter.TestConnectionResponse{OK: true, Message: "connected"}, nil
}

func (s *stubEngine) Schema(ctx context.Context, target, action string) (adapter.SchemaResponse, error) {
	return adapter.SchemaResponse{OK: true}, nil
}

// testServer hosts the full HTTP surface over in-memory storage with a real
// token service and the dev cipher.
type testServer struct {
	srv      *httptest.Server
	services *service.Services
	engine   *stubEngine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.StructuredConfig{
		App: config.App{
			TokenSignKey:      "handler-test-key",
			TokenIssuer:       "askdb-test",
			TokenDuration:     time.Hour,
			DevMode:           true,
			BootstrapEmail:    "admin@askdb.local",
			BootstrapPassword: "bootstrap-pw",
		},
		Pool: config.Pool{MaxConnections: 4, IdleTimeout: time.Minute},
	}

	log := logger.Nop()

	cipher, err := crypto.NewCipherFromConfig(cfg.App, log)
	require.NoError(t, err)

	engine := &stubEngine{}
	services := service.NewServices(service.Deps{
		Storages: &store.Storages{
			Users:       store.NewMemoryUserRepository(),
			Credentials: store.NewMemoryCredentialRepository(),
		},
		Hasher: crypto.NewHasher(),
		Cipher: cipher,
		Tokens: token.NewService(cfg.App),
		Pool:   pool.NewManager(cfg.Pool, log),
		Engine: engine,
	}, cfg, log)

	handler := NewHandler(services, cfg.App, log)
	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, services: services, engine: engine}
}

// createUser registers an account directly through the service layer and
// returns its session cookie obtained via a real login round-trip.
func (ts *testServer) createUser(t *testing.T, email string, role models.Role) *http.Cookie {
	t.Helper()

	_, err := ts.services.Users.Create(context.Background(), models.UserInput{
		Email:    email,
		Name:     "Test " + email,
		Role:     role,
		Password: "pw-" + email,
	})
	require.NoError(t, err)

	return ts.login(t, email, "pw-"+email)
}

func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandler_TraceIDHeader(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))
}

func TestHandler_TraceIDHeader_Propagated(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/api/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-from-client")

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-from-client", resp.Header.Get(traceIDHeader))
}
