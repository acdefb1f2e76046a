// SPDX-License-Identifier: Apache-2.0

// Package handler aggregates the transport-facing handler constructors.
package handler

import (
	"errors"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/handler/http"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/service"
)

var errNoHandlersAreCreated = errors.New("no handlers are created")

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
