// SPDX-License-Identifier: Apache-2.0

package models

// QueryInput is the inbound natural-language query request. CredentialID
// names a stored credential of the calling user; ConnectionID optionally pins
// the request to an existing pooled slot.
type QueryInput struct {
	Prompt       string `json:"prompt"`
	CredentialID string `json:"credentialId"`
	ConnectionID string `json:"connectionId,omitempty"`
}

// QueryResult is the assembled response of a query run: the rows the
// downstream engine returned, the textual query it executed, and its
// reported execution time in milliseconds. Mocked is set only when the
// explicitly configured degraded mode fabricated the rows.
type QueryResult struct {
	Data            []map[string]any `json:"data"`
	Query           string           `json:"query"`
	ExecutionTimeMs int64            `json:"executionTime"`
	ConnectionID    string           `json:"connectionId"`
	Mocked          bool             `json:"mocked,omitempty"`
}

// TestConnectionResult reports the outcome of a credential connectivity
// probe dispatched to the downstream engine.
type TestConnectionResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
}

// SchemaAction names a schema-cache maintenance operation understood by the
// downstream engine.
type SchemaAction string

const (
	SchemaRefresh SchemaAction = "refresh"
	SchemaClear   SchemaAction = "clear"
)

// SchemaRequest is the inbound schema-cache maintenance request.
type SchemaRequest struct {
	CredentialID string       `json:"credentialId"`
	Action       SchemaAction `json:"action"`
}

// SchemaResult is the downstream engine's reply to a schema action.
type SchemaResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
