// Command fakeapi serves an in-memory copy of the users/posts/comments API, for running the
// contract tests locally:
//
//	APP_IDS=local-app-id go run ./cmd/fakeapi
//	HOST=http://localhost:9000 API_TOKEN=local-app-id go run .
package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dummyapi-qa/contract-tests/fakeapi"
	"github.com/dummyapi-qa/contract-tests/internal/logsetup"

	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"
)

const shutdownTimeout = 5 * time.Second

func main() {
	defer closer.Close()

	cfg, err := initConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Can't init config")
	}

	if err := logsetup.Init(cfg.LogLevel, cfg.LogFmt); err != nil {
		log.Fatal().Err(err).Msg("Can't init logger")
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           fakeapi.NewServer(fakeapi.Config{AppIDs: cfg.AppIDs, Logger: log.Logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	closer.Bind(func() {
		log.Debug().Msg("start graceful server shutdown")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error while shutting down server")
		}
	})

	log.Info().Str("listen", cfg.Listen).Strs("appIDs", cfg.AppIDs).Msg("fake API listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Can't start server")
	}
}
