// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb/askdb/models"
)

func validCredentialBody() models.CredentialInput {
	return models.CredentialInput{
		Name:     "prod orders",
		Type:     models.DatabasePostgreSQL,
		Host:     "db.internal",
		Port:     5432,
		Database: "orders",
		Username: "svc",
		Password: "db-secret",
	}
}

func (ts *testServer) createCredential(t *testing.T, cookie *http.Cookie) models.PublicCredential {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/credentials", validCredentialBody(), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[models.PublicCredential](t, resp)
}

func TestCredentials_Create_NeverEchoesPassword(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "editor@example.com", models.RoleEditor)

	resp := ts.do(t, http.MethodPost, "/api/credentials", validCredentialBody(), cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw := decodeBody[map[string]json.RawMessage](t, resp)
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "encrypted_password")
	assert.Contains(t, raw, "id")
}

func TestCredentials_Create_ViewerForbidden(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "viewer@example.com", models.RoleViewer)

	resp := ts.do(t, http.MethodPost, "/api/credentials", validCredentialBody(), cookie)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody[models.ErrorResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestCredentials_Create_ValidationFailed(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "editor@example.com", models.RoleEditor)

	input := validCredentialBody()
	input.Name = ""
	input.Port = 99999

	resp := ts.do(t, http.MethodPost, "/api/credentials", input, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[models.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "port")
}

func TestCredentials_ListAndGet_OwnerScoped(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice@example.com", models.RoleEditor)
	bob := ts.createUser(t, "bob@example.com", models.RoleEditor)

	created := ts.createCredential(t, alice)

	resp := ts.do(t, http.MethodGet, "/api/credentials", nil, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]models.PublicCredential](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// Another account sees an empty vault and cannot address the record.
	resp = ts.do(t, http.MethodGet, "/api/credentials", nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]models.PublicCredential](t, resp))

	resp = ts.do(t, http.MethodGet, "/api/credentials/"+created.ID, nil, bob)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody[models.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code, "foreign credentials read as absent, never forbidden")
}

func TestCredentials_Update_KeepsPasswordWhenOmitted(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "editor@example.com", models.RoleEditor)
	created := ts.createCredential(t, cookie)

	input := validCredentialBody()
	input.Name = "renamed"
	input.Password = ""

	resp := ts.do(t, http.MethodPut, "/api/credentials/"+created.ID, input, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeBody[models.PublicCredential](t, resp)
	assert.Equal(t, "renamed", updated.Name)

	// The stored secret still decrypts: the probe endpoint resolves it.
	resp = ts.do(t, http.MethodPost, "/api/credentials/"+created.ID+"/test", nil, cookie)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCredentials_Delete_Idempotent(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "editor@example.com", models.RoleEditor)
	created := ts.createCredential(t, cookie)

	resp := ts.do(t, http.MethodDelete, "/api/credentials/"+created.ID, nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeBody[models.DeleteResponse](t, resp).Deleted)

	resp = ts.do(t, http.MethodDelete, "/api/credentials/"+created.ID, nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeBody[models.DeleteResponse](t, resp).Deleted)
}

func TestCredentials_Test_Probe(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.createUser(t, "editor@example.com", models.RoleEditor)
	created := ts.createCredential(t, cookie)

	resp := ts.do(t, http.MethodPost, "/api/credentials/"+created.ID+"/test", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[models.TestConnectionResult](t, resp)
	assert.True(t, result.OK)
	assert.Equal(t, "connected", result.Message)
}
