package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLogger "github.com/FACorreiaa/go-hbnb/app/logger"
	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/console"
	"github.com/FACorreiaa/go-hbnb/internal/container"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the line-oriented command interpreter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.InitConfig()
			if err != nil {
				return fmt.Errorf("error initializing config: %w", err)
			}
			// stdout belongs to the interpreter
			logger := appLogger.New(cfg.IsDevelopment(), os.Stderr, slog.LevelWarn)
			slog.SetDefault(logger)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer cancel()
			return runConsole(ctx, &cfg, logger)
		},
	}
}

func runConsole(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, _, err := container.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load objects: %w", err)
	}
	return console.New(store, os.Stdin, os.Stdout, logger).Run(ctx)
}
