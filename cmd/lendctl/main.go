package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lending-backend/internal/bootstrap"
	"lending-backend/internal/config"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lendctl",
		Short:         "Maintenance tasks for the lending backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(delinquencyCmd())
	root.AddCommand(notificationsCmd())
	root.AddCommand(contractsCmd())
	return root
}

// openDeps is swapped in tests to run commands against a local database.
var openDeps = open

// open loads config and connects; callers must Close the result.
func open(ctx context.Context, opts bootstrap.Options) (*bootstrap.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Lending.Validate(); err != nil {
		return nil, err
	}
	return bootstrap.Open(ctx, cfg, bootstrap.NewLogger(), opts)
}
