package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lending-backend/pkg/finance"
)

func scheduleCmd() *cobra.Command {
	var (
		principal float64
		rate      float64
		term      int
		start     string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization table for a loan quote",
		Long: `Print the monthly amortization table for a principal, annual rate and term.

Examples:
  lendctl schedule --principal 10000 --rate 12 --term 12
  lendctl schedule --principal 5000 --rate 0 --term 6 --start 2025-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := time.Now().UTC()
			if start != "" {
				t, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				from = t
			}
			payments, err := finance.Schedule(principal, rate, term, from)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "#\tdue\tpayment\tprincipal\tinterest\tbalance\t")
			var total, interest float64
			for _, p := range payments {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
					p.Sequence, p.DueDate.Format("2006-01-02"), p.Amount, p.Principal, p.Interest, p.Balance)
				total = finance.Sum(total, p.Amount)
				interest = finance.Sum(interest, p.Interest)
			}
			fmt.Fprintf(w, "\ttotal\t%.2f\t\t%.2f\t\t\n", total, interest)
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&principal, "principal", 0, "loan principal")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&term, "term", 0, "term in months")
	cmd.Flags().StringVar(&start, "start", "", "first period start (YYYY-MM-DD), default today")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}
