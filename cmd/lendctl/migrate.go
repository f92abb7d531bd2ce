package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lending-backend/internal/bootstrap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openDeps(cmd.Context(), bootstrap.Options{Migrate: true})
			if err != nil {
				return err
			}
			defer deps.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
