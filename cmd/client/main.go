package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-session-gate/internal/adapter"
	"github.com/MKhiriev/go-session-gate/internal/config"
	handler "github.com/MKhiriev/go-session-gate/internal/handler/http"
	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/service"
	"github.com/MKhiriev/go-session-gate/internal/store"
	"github.com/MKhiriev/go-session-gate/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("session-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	identity, err := adapter.NewHTTPIdentityProvider(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create identity provider adapter")
	}

	profiles, err := adapter.NewHTTPProfileStore(cfg.Adapter, identity, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create profile store adapter")
	}

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect local database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("migrate local database")
	}

	sessions := service.NewSessionService(identity, profiles, log)
	if err = sessions.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start session service")
	}
	defer sessions.Stop()

	names := service.NewNameResolver(profiles, store.NewNameCache(db), log, cfg.App.DisplayPlaceholder)
	if err = names.Start(ctx, sessions); err != nil {
		log.Fatal().Err(err).Msg("start name resolver")
	}
	defer names.Stop()

	server := &http.Server{
		Addr:    cfg.Server.HTTPAddress,
		Handler: handler.NewHandler(sessions, names, log).Init(),
	}

	go func() {
		log.Info().Str("address", cfg.Server.HTTPAddress).Msg("http front listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http front failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http front shutdown error")
	}
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
