package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/pawpulse/internal/infra/config"
)

const defaultShutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{
		cfg:             cfg,
		logger:          logger.With("component", "bootstrap"),
		server:          server,
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails. In-flight requests get shutdownTimeout to drain.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting",
			"address", a.cfg.HTTP.Address,
			"fetch_timeout", a.cfg.Fetch.Timeout.String(),
			"air_quality_enabled", a.cfg.AirQuality.APIKey != "",
			"event_search_enabled", a.cfg.Search.APIKey != "" && a.cfg.Search.EngineID != "",
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		a.logger.Info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
