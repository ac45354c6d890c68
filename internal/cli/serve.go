package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/config"
	httpAdapter "github.com/aretw0/mootcourt/pkg/adapters/http"
	"github.com/aretw0/mootcourt/pkg/adapters/mcp"
	"github.com/aretw0/mootcourt/pkg/cases"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/observability"
	"github.com/aretw0/mootcourt/pkg/runner"
	"github.com/aretw0/mootcourt/pkg/session"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// NewManager builds the session manager shared by the server commands.
func NewManager(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*session.Manager, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	catalog, err := cases.Default()
	if err != nil {
		return nil, fmt.Errorf("load case catalog: %w", err)
	}
	runner.SetMaxInputSize(cfg.MaxInputSize)

	hooks = append(hooks, observability.LoggingHooks(logger))
	return session.NewManager(catalog,
		session.WithLogger(logger),
		session.WithLimit(cfg.SessionLimit),
		session.WithSessionOptions(
			mootcourt.WithThinkingPolicy(policy),
			mootcourt.WithLifecycleHooks(domain.ChainHooks(hooks...)),
		),
	), nil
}

// Serve runs the HTTP server on cfg.Addr until ctx is cancelled.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	return ServeListener(ctx, ln, cfg, logger)
}

// ServeListener is Serve on an existing listener. Live sessions are closed
// once the server has stopped.
func ServeListener(ctx context.Context, ln net.Listener, cfg config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	mgr, err := NewManager(cfg, logger, metrics.Hooks())
	if err != nil {
		ln.Close()
		return err
	}
	defer mgr.CloseAll(context.WithoutCancel(ctx))

	handler, err := httpAdapter.NewHandler(mgr,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(metrics.Handler()),
		httpAdapter.WithCORSOrigins(cfg.CORSOrigins),
	)
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Mootcourt Server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Mootcourt Server stopped gracefully")
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout.
func ServeMCP(cfg config.Config, logger *slog.Logger) error {
	mgr, err := NewManager(cfg, logger)
	if err != nil {
		return err
	}
	defer mgr.CloseAll(context.Background())

	logger.Info("Starting Mootcourt MCP Server (Stdio)")
	return mcp.NewServer(mgr, logger).ServeStdio()
}
