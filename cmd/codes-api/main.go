// File: cmd/codes-api/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nyc-subway-trivia/internal/config"
	"nyc-subway-trivia/internal/infra/api"
	mdb "nyc-subway-trivia/internal/infra/db/mongodb"
	"nyc-subway-trivia/internal/infra/logging"
	"nyc-subway-trivia/internal/infra/metrics"
	red "nyc-subway-trivia/internal/infra/redis"
	"nyc-subway-trivia/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.Load(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.RegisterRuntime()
	metrics.SetBuildInfo(version, commit)

	// ---- MongoDB ----
	client, err := mdb.Connect(ctx, &cfg.Mongo, "codes-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	codes := mdb.NewPromoCodeRepo(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)

	// ---- Redis (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		codes = mdb.NewPromoCodeRepoCacheDecorator(codes, redisClient, cfg.Redis.TTL, logger)
		logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("active code cache enabled")
	}

	// ---- HTTP ----
	codeUC := usecase.NewCodeUseCase(codes, logger)
	srv := api.NewServer(codeUC, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("version", version).Msg("codes api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
