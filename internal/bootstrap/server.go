package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-leave/internal/audit"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// ServeHTTP runs handler until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout. A listener failure is returned
// immediately.
func ServeHTTP(
	ctx context.Context,
	handler http.Handler,
	cfg ServerConfig,
	auditLogger audit.Logger,
	logger *zap.Logger,
) error {
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	return serve(ctx, ln, handler, cfg, auditLogger, logger)
}

func serve(
	ctx context.Context,
	ln net.Listener,
	handler http.Handler,
	cfg ServerConfig,
	auditLogger audit.Logger,
	logger *zap.Logger,
) error {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("http.server")

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if auditLogger != nil {
		auditLogger.Log(context.Background(), audit.Entry{
			Action:  "SERVER_SHUTDOWN",
			Message: "http server draining",
			Meta:    map[string]any{"cause": context.Cause(ctx).Error()},
		})
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("http server stopped")
	return nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
