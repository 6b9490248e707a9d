package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/acme/nuvia-dialer/internal/api"
	"github.com/acme/nuvia-dialer/internal/api/handlers"
	"github.com/acme/nuvia-dialer/internal/app"
	"github.com/acme/nuvia-dialer/internal/telemetry"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configPath := flag.String("config", getEnv("CONFIG_FILE", "configs/config.yaml"), "path to configuration file")
	flag.Parse()

	container, err := app.Build(ctx, *configPath)
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer container.Close(context.Background())

	cfg := container.Config
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Version)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), cfg.Telemetry.ShutdownTimeout)
		defer scancel()
		_ = shutdown(sctx)
	}()

	if !container.Provider().Configured() {
		container.Logger.Warn("five9 client credentials are not set; login will fail with 500")
	}

	server := api.NewServer(container, handlers.NewHandlerSet(container))

	container.Logger.Info("starting server",
		zap.Int("port", cfg.HTTP.Port),
		zap.String("stream_path", cfg.Stream.Path),
		zap.String("stream_auth", cfg.Stream.Auth),
		zap.Bool("activity_publish", cfg.Kafka.Enabled()),
	)
	if err := server.Start(ctx); err != nil {
		container.Logger.Error("server terminated", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
