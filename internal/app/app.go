// Package app wires the core hub and the HTTP transport into one runnable
// application.
package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/config"
	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
	transporthttp "github.com/Xieruu-29/Realtime-ChatApp/internal/transport/http"
)

// App owns the hub and the HTTP server.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration. The
// configuration must already be validated.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	hub := core.NewHub(core.NewHistory(cfg.HistoryCapacity), core.NewRegistry(), cfg.NamePolicy(), logger)
	server := transporthttp.NewServer(hub, cfg, logger)

	logger.Info().
		Str("addr", cfg.Addr).
		Int("history_capacity", cfg.HistoryCapacity).
		Str("duplicate_name_policy", cfg.NamePolicy().String()).
		Msg("application configured")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}
}

// Hub exposes the running hub, mainly for tests.
func (a *App) Hub() *core.Hub {
	return a.hub
}

// Run starts the hub and the HTTP server and blocks until the context is
// cancelled or the server fails. Cancelling the context drains clients:
// the hub closes every event channel, which unwinds the open sessions.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
