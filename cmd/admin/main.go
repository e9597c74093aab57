package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"catalog-api/internal/app"
	"catalog-api/internal/core/config"
	"catalog-api/internal/core/logger"
	"catalog-api/internal/core/server"
	"catalog-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	log = log.Named("admin")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("admin api FAILED", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	cleanup()
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	deps, closeDeps, err := app.Wire(ctx, cfg, log)
	defer closeDeps()
	if err != nil {
		return fmt.Errorf("wire: %w", err)
	}
	if deps.Seed == nil {
		log.Info("seed endpoint disabled")
	}

	r := router.NewAdminEngine(deps)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 10*time.Second, 60*time.Second, 60*time.Second)
	log.Info("admin api starting", zap.String("addr", addr), zap.String("admin_v1", "http://"+addr+"/admin/v1"))

	errCh := make(chan error, 1)
	go func() { errCh <- server.StartHTTP(srv, log) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("admin api stopped gracefully")
	return nil
}
