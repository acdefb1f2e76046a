// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"

	"github.com/askdb/askdb/internal/dispatch"
	"github.com/askdb/askdb/internal/logger"
)

type engineAdapter struct {
	dispatcher *dispatch.Dispatcher
	logger     *logger.Logger
}

// NewEngineAdapter constructs an [EngineAdapter] that talks to the engine
// through the given resilient dispatcher.
func NewEngineAdapter(dispatcher *dispatch.Dispatcher, logger *logger.Logger) EngineAdapter {
	return &engineAdapter{dispatcher: dispatcher, logger: logger}
}

type queryRequest struct {
	Prompt           string `json:"prompt"`
	Target           string `json:"target"`
	ConnectionString string `json:"connectionString,omitempty"`
}

type testConnectionRequest struct {
	Target           string `json:"target"`
	ConnectionString string `json:"connectionString,omitempty"`
}

type schemaRequest struct {
	Target string `json:"target"`
	Action string `json:"action"`
}

func (a *engineAdapter) Query(ctx context.Context, prompt, target, connectionString string) (QueryResponse, error) {
	var out QueryResponse
	err := a.dispatcher.PostJSON(ctx, "/query", queryRequest{
		Prompt:           prompt,
		Target:           target,
		ConnectionString: connectionString,
	}, &out)
	if err != nil {
		return QueryResponse{}, err
	}

	return out, nil
}

func (a *engineAdapter) TestConnection(ctx context.Context, target, connectionString string) (TestConnectionResponse, error) {
	var out TestConnectionResponse
	err := a.dispatcher.PostJSON(ctx, "/test-connection", testConnectionRequest{
		Target:           target,
		ConnectionString: connectionString,
	}, &out)
	if err != nil {
		return TestConnectionResponse{}, err
	}

	return out, nil
}

func (a *engineAdapter) Schema(ctx context.Context, target, action string) (SchemaResponse, error) {
	var out SchemaResponse
	err := a.dispatcher.PostJSON(ctx, "/schema", schemaRequest{
		Target: target,
		Action: action,
	}, &out)
	if err != nil {
		return SchemaResponse{}, err
	}

	return out, nil
}
