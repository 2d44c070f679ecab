package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"perfeval/internal/app/server"
	"perfeval/internal/platform/config"
	"perfeval/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		log.Fatalf("perfeval: %v", err)
	}
}

func rootCommand() *cobra.Command {
	var envFile string
	var cfg config.Config

	rootCmd := &cobra.Command{
		Use:           "perfeval",
		Short:         "Employee performance evaluation API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg = config.Load()
			return cfg.Validate()
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	var migrationsDir string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			dir := cfg.MigrationsDir
			if migrationsDir != "" {
				dir = migrationsDir
			}
			return db.Migrate(cmd.Context(), pool, dir)
		},
	}
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert roles, the aspect catalog and the admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			return db.Seed(cmd.Context(), pool, cfg)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	rootCmd.RunE = serveCmd.RunE
	return rootCmd
}

func serve(ctx context.Context, cfg config.Config) error {
	app, err := server.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Serve(ctx)
}
