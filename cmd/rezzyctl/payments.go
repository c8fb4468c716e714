package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezzy/server/internal/adapter/outbound/postgres"
	"github.com/rezzy/server/internal/shared/database"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments <user-id>",
	Short: "List payments recorded from checkout webhooks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		limit, _ := cmd.Flags().GetInt("limit")
		payments, err := postgres.NewPaymentAdapter(db).ListPaymentsByUser(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("listing payments: %w", err)
		}

		if asJSON {
			return printJSON(payments)
		}
		if len(payments) == 0 {
			fmt.Println("no payments")
			return nil
		}
		for _, p := range payments {
			fmt.Printf("%s  %-8s %8.2f %s  %-9s %s\n",
				p.CreatedAt.Format(time.DateOnly),
				p.Plan,
				float64(p.AmountCents)/100,
				p.Currency,
				p.Status,
				p.StripeReference,
			)
		}
		return nil
	},
}

func init() {
	paymentsCmd.Flags().Int("limit", 20, "maximum number of payments")
	rootCmd.AddCommand(paymentsCmd)
}
