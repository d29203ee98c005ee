package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-storefront/internal/app"
	"go-storefront/internal/bootstrap"
	"go-storefront/internal/config"
	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/logger"

	"github.com/gin-gonic/gin"
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	auditLogger := bootstrap.NewZapAuditLogger(zl)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), bootstrap.Audit(auditLogger))

	// build dependency + routes
	cleanup, err := app.BuildApp(ctx, r, cfg, zl)
	if err != nil {
		zl.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	if err := bootstrap.StartHTTPServer(ctx, r, bootstrap.ServerConfig{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, auditLogger); err != nil {
		zl.Error("http server stopped with error", zap.Error(err))
	}
}
