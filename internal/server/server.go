// Package server boots the application: config, logging, stores, router,
// and a graceful HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/cache"
	"github.com/tempohq/tempo/pkg/database"
	"github.com/tempohq/tempo/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and serves until SIGINT/SIGTERM.
// MongoDB is required; Redis is best-effort (verification codes degrade).
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if config.LogToMongo() {
		h, err := logger.NewMongoHandler(config.DatabaseURL(), config.DatabaseName(), "logs")
		if err != nil {
			logger.Warn("mongo log handler unavailable", "error", err)
		} else {
			logger.AttachHandler(h)
			defer h.Close()
		}
	}

	ctx := context.Background()
	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, verification codes disabled", "error", err)
	}
	defer cache.Close()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           BuildRouter().Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
