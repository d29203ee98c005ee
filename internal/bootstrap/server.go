// Package bootstrap runs the HTTP server with graceful shutdown.
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StartHTTPServer serves until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func StartHTTPServer(ctx context.Context, handler http.Handler, cfg ServerConfig, audit AuditLogger) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort("", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", srv.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		audit.Log(AuditEntry{Event: "server_started", Detail: ln.Addr().String()})
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	audit.Log(AuditEntry{Event: "server_stopping"})
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http server shutdown")
	}
	audit.Log(AuditEntry{Event: "server_stopped"})
	return nil
}
