package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/db"
	"github.com/NomadCrew/feedback-intake/handlers"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/NomadCrew/feedback-intake/internal/provision"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/NomadCrew/feedback-intake/router"
	"github.com/NomadCrew/feedback-intake/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()

	rootCmd := &cobra.Command{
		Use:           "feedback-intake",
		Short:         "Feedback form intake service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.GetLogger().Errorw("Command failed", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.GetLogger()

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx := cmd.Context()
			providers, err := provision.Build(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to provision collaborators: %w", err)
			}
			defer func() {
				if err := providers.Close(context.Background()); err != nil {
					log.Warnw("Failed to close collaborators", "error", err)
				}
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			h := intake.NewHandler(providers.Stores, providers.Notifiers, cfg.Notifier.Topic,
				intake.WithNotificationPolicy(provision.Policy(cfg.Intake.NotificationPolicy)),
				intake.WithMetrics(intake.NewMetrics(reg)),
			)

			engine := router.SetupRouter(router.Dependencies{
				Config:          cfg,
				FeedbackHandler: handlers.NewFeedbackHandler(h),
				HealthHandler:   handlers.NewHealthHandler(services.NewHealthService(providers.Checks, cfg.Server.Version)),
				Gatherer:        reg,
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           engine,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Infow("Starting server",
					"port", cfg.Server.Port,
					"version", cfg.Server.Version,
					"store", cfg.Store.Driver,
					"notifier", cfg.Notifier.Driver)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-serverErr:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case sig := <-quit:
				log.Infow("Shutting down server", "signal", sig.String())
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}

			log.Info("Server stopped")
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var down int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Store.Driver != config.StorePostgres {
				logger.GetLogger().Warnw("Migrating a database the configured store does not use",
					"store", cfg.Store.Driver)
			}

			if down > 0 {
				return db.RollbackMigrations(cfg.Database.URL(), down)
			}
			return db.RunMigrations(cfg.Database.URL())
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead of applying")
	return cmd
}

func configCmd() *cobra.Command {
	var envOnly bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if envOnly {
				for _, name := range config.EnvVars() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			cfg, err := config.Defaults()
			if err != nil {
				return err
			}
			return config.WriteExample(out, cfg)
		},
	}
	cmd.Flags().BoolVar(&envOnly, "env", false, "list the environment variables instead")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "feedback-intake %s\n", version)
		},
	}
}
