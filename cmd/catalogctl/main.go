// Package main implements catalogctl, the operator CLI for the
// DevDaily catalog. It drives the same use cases the admin panel's
// service layer exposes, without the web surface in between.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devdaily/catalog-service/internal/config"
	"github.com/devdaily/catalog-service/internal/pkg/logging"
	"github.com/devdaily/catalog-service/internal/services"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operator CLI for the DevDaily product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newProductCmd())
	root.AddCommand(newAuditCmd())
	root.AddCommand(newAdminCmd())
	return root
}

// withServices loads configuration, wires the service container, runs
// fn, and tears everything down again. Every subcommand goes through
// here so connection handling lives in one place.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, s *services.ServiceOptions) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Keep interactor logging out of the table output unless asked.
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := services.NewServiceOptions(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer s.Close()

	return fn(cmd.Context(), s)
}
