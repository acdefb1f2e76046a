// SPDX-License-Identifier: Apache-2.0

// Package adapter implements the outbound client of the downstream
// natural-language query engine. The engine is an untrusted, possibly
// unavailable peer: every call goes through the resilient dispatcher.
package adapter

import "context"

// EngineAdapter is the outbound contract toward the downstream query
// engine.
type EngineAdapter interface {
	// Query asks the engine to translate prompt into a query and run it
	// against the target database. connectionString carries the decrypted
	// credential material and must never be logged.
	Query(ctx context.Context, prompt, target, connectionString string) (QueryResponse, error)

	// TestConnection probes connectivity of the target database.
	TestConnection(ctx context.Context, target, connectionString string) (TestConnectionResponse, error)

	// Schema performs a schema-cache maintenance action for the target.
	Schema(ctx context.Context, target, action string) (SchemaResponse, error)
}

// QueryResponse is the engine's reply to a query call: data is an array of
// row objects, query is the textual query the engine ran, executionTime is
// milliseconds.
type QueryResponse struct {
	Data          []map[string]any `json:"data"`
	Query         string           `json:"query"`
	ExecutionTime int64            `json:"executionTime"`
}

// TestConnectionResponse is the engine's reply to a connectivity probe.
type TestConnectionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// SchemaResponse is the engine's reply to a schema action.
type SchemaResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
