// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/askdb/askdb/internal/adapter"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/crypto"
	"github.com/askdb/askdb/internal/dispatch"
	"github.com/askdb/askdb/internal/handler"
	"github.com/askdb/askdb/internal/logger"
	"github.com/askdb/askdb/internal/pool"
	"github.com/askdb/askdb/internal/server"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/store"
	"github.com/askdb/askdb/internal/token"
	"github.com/askdb/askdb/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("askdb-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages := store.NewStorages(ctx, cfg.Storage, log)

	cipher, err := crypto.NewCipherFromConfig(cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating credential cipher")
	}

	poolManager := pool.NewManager(cfg.Pool, log)
	dispatcher := dispatch.NewDispatcher(cfg.Engine, log)

	services := service.NewServices(service.Deps{
		Storages: storages,
		Hasher:   crypto.NewHasher(),
		Cipher:   cipher,
		Tokens:   token.NewService(cfg.App),
		Pool:     poolManager,
		Engine:   adapter.NewEngineAdapter(dispatcher, log),
	}, cfg, log)

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(
		workers.NewPoolReaper(pool.NewReaper(poolManager, cfg.Pool.ReapInterval)),
	)
	background.Run(ctx)
	defer background.Stop()

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
