package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/anonto42/preference/backend/migrations"
	"github.com/anonto42/preference/backend/pkg/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

var dbURL string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the Preference database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				cfg := config.Load()
				dbURL = cfg.MigrationsURL
				if dbURL == "" {
					dbURL = cfg.PostgresUrl
				}
			}
			if dbURL == "" {
				return errors.New("database url required: set --database or MIGRATIONS_DATABASE_URL")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbURL, "database", "", "postgres:// URL (default from MIGRATIONS_DATABASE_URL)")

	root.AddCommand(upCmd(), downCmd(), versionCmd(), forceCmd())
	return root
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrations.Up(dbURL); err != nil {
				return err
			}
			log.Println("migrations: up completed")
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid steps argument %q", args[0])
				}
				steps = n
			}
			m, err := migrations.New(dbURL)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("down failed: %w", err)
			}
			log.Printf("migrations: down completed (%d steps)", steps)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrations.New(dbURL)
			if err != nil {
				return err
			}
			defer m.Close()
			v, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return fmt.Errorf("version failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d  dirty: %v\n", v, dirty)
			return nil
		},
	}
}

func forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force V",
		Short: "Set the migration version without running it (clears dirty state)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			m, err := migrations.New(dbURL)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Force(v); err != nil {
				return fmt.Errorf("force failed: %w", err)
			}
			log.Printf("migrations: forced version %d", v)
			return nil
		},
	}
}
