package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lending-backend/internal/bootstrap"
	"lending-backend/internal/infrastructure/events"
	"lending-backend/internal/usecase/delinquency"
	"lending-backend/internal/usecase/loan"
)

func delinquencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delinquency",
		Short: "Overdue and default handling",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run one delinquency sweep and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openDeps(cmd.Context(), bootstrap.Options{})
			if err != nil {
				return err
			}
			defer deps.Close()

			now := func() time.Time { return time.Now().UTC() }
			rep, err := delinquency.NewUsecase(deps.Repos, deps.UoW, deps.Config.Lending, now, deps.Logger).Sweep(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	})
	return cmd
}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Notification outbox",
	}
	var batch int
	dispatch := &cobra.Command{
		Use:   "dispatch",
		Short: "Publish every unpublished notification, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openDeps(cmd.Context(), bootstrap.Options{})
			if err != nil {
				return err
			}
			defer deps.Close()

			d := events.NewDispatcher(deps.Repos.Notifications, deps.Publisher, batch, nil, deps.Logger)
			total := 0
			for {
				n, err := d.DispatchOnce(cmd.Context())
				total += n
				if err != nil {
					return fmt.Errorf("dispatched %d before failing: %w", total, err)
				}
				if n == 0 {
					break
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dispatched %d notifications\n", total)
			return nil
		},
	}
	dispatch.Flags().IntVar(&batch, "batch", 100, "notifications per batch")
	cmd.AddCommand(dispatch)
	return cmd
}

func contractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Loan agreement documents",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "render [loan-id]",
		Short: "Print the agreement document of a funded loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := openDeps(cmd.Context(), bootstrap.Options{})
			if err != nil {
				return err
			}
			defer deps.Close()

			uc := loan.NewUsecase(deps.Repos, deps.UoW, deps.Artifacts, deps.Config.Lending, nil)
			doc, err := uc.RenderContract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	})
	return cmd
}
