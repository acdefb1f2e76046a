// SPDX-License-Identifier: Apache-2.0

package http

import (
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/utils"
)

type Handler struct {
	services *service.Services

	// devMode relaxes the Secure attribute on the session cookie so local
	// plain-HTTP development works.
	devMode bool

	traceIDs *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		devMode:  cfg.DevMode,
		traceIDs: utils.NewUUIDGenerator(),
		logger:   logger,
	}
}
