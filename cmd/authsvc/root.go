package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kunalkv2000/reset-password/internal/app"
	"github.com/kunalkv2000/reset-password/internal/config"
	"github.com/kunalkv2000/reset-password/internal/errutil"
	"github.com/kunalkv2000/reset-password/internal/logging"
)

const serviceName = "authsvc"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the auth service CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "Email/password authentication API",
		Long: `authsvc serves registration, cookie sessions, email OTP account
verification and OTP password reset over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default config/config.yml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig reads configuration and builds the process logger
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(serviceName, version, cfg.LogFormat, cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.GinMode != "" {
				gin.SetMode(cfg.GinMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx, cfg, logger); err != nil {
				errutil.LogError(context.Background(), logger, "server stopped", err)
				return err
			}
			return nil
		},
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return app.Migrate(cfg, logger)
		},
	}
}
