package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oksasatya/sp-website-api/config"
	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/container"
	pginfra "github.com/oksasatya/sp-website-api/internal/infrastructure/postgres"
	"github.com/oksasatya/sp-website-api/pkg/helpers"
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Database bootstrap tasks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.Debug)
		return pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger)
	},
}

var adminFlags struct {
	email, name, password string
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the first admin user (only while no admin exists)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		email := firstNonEmpty(adminFlags.email, os.Getenv("SEED_ADMIN_EMAIL"))
		name := firstNonEmpty(adminFlags.name, os.Getenv("SEED_ADMIN_NAME"), "Administrator")
		password := firstNonEmpty(adminFlags.password, os.Getenv("SEED_ADMIN_PASSWORD"))
		if email == "" || password == "" {
			return errors.New("--email and --password are required (or SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD)")
		}
		logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.Debug)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		pool, err := pginfra.NewPool(ctx, cfg.DatabaseURL, pginfra.PoolConfig{MaxConns: 2, AppName: "seed"})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
			return err
		}

		var opts []container.Option
		if cfg.RabbitMQURL != "" {
			if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue); err == nil {
				defer pub.Close()
				opts = append(opts, container.WithEvents(pub))
			} else {
				logger.WithError(err).Warn("rabbitmq unavailable; no welcome email will be queued")
			}
		}
		c := container.New(cfg, logger, pginfra.NewUserRepository(pool), opts...)

		res, err := c.Auth.BootstrapAdmin(ctx, application.RegisterInput{
			Email:    email,
			Name:     name,
			Password: password,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: id=%d email=%s\n", application.MsgAdminCreated, res.User.ID, res.User.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, adminCmd)
	adminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email (env SEED_ADMIN_EMAIL)")
	adminCmd.Flags().StringVar(&adminFlags.name, "name", "", "admin display name (env SEED_ADMIN_NAME)")
	adminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password (env SEED_ADMIN_PASSWORD)")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
