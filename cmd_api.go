package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	appLogger "github.com/FACorreiaa/go-hbnb/app/logger"
	"github.com/FACorreiaa/go-hbnb/app/observability/metrics"
	"github.com/FACorreiaa/go-hbnb/app/tracer"
	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/container"
	"github.com/FACorreiaa/go-hbnb/internal/router"
)

const shutdownTimeout = 10 * time.Second

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve the REST API v1 and the /hbnb page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.InitConfig()
			if err != nil {
				return fmt.Errorf("error initializing config: %w", err)
			}
			level := slog.LevelInfo
			if cfg.IsDevelopment() {
				level = slog.LevelDebug
			}
			logger := appLogger.New(cfg.IsDevelopment(), os.Stdout, level)
			slog.SetDefault(logger)

			// --- Application Context & Shutdown ---
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runAPI(ctx, &cfg, logger)
		},
	}
}

func runAPI(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// --- Observability ---
	metricsHandler, shutdownTelemetry, err := tracer.InitTracingAndMetrics("hbnb-api")
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	c, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to build container", slog.Any("error", err))
		return err
	}
	defer c.Close()

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.HTTPPort)
	servers := []*http.Server{{
		Addr:         serverAddress,
		Handler:      router.SetupRouter(c),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}}
	if cfg.Handlers.Prometheus.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Handlers.Prometheus.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		if err := errors.Join(errs...); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
			return err
		}
		logger.Info("HTTP servers gracefully stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		return err
	}
	logger.Info("Application shut down complete.")
	return nil
}
