package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-storefront/internal/app"
	"go-storefront/internal/config"
	"go-storefront/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunWorker(ctx, cfg, zl); err != nil {
		zl.Fatal("worker failed", zap.Error(err))
	}
}
