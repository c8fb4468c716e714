package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/shared/database"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and change user plans",
}

var planSetCmd = &cobra.Command{
	Use:   "set <user-id> <plan>",
	Short: "Assign a plan to a user without a payment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		plan := model.ParsePlanTag(args[1])
		if err := newBillingDomain(db).SetPlan(cmd.Context(), args[0], plan); err != nil {
			return fmt.Errorf("setting plan: %w", err)
		}
		fmt.Printf("user %s is now on plan %s\n", args[0], plan)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured plans",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		catalog := newBillingDomain(db).Catalog()
		if asJSON {
			return printJSON(catalog)
		}
		for _, entry := range catalog {
			fmt.Printf("%-10s %6d cents  scans=%s cover_letters=%s interview_questions=%s job_search=%t\n",
				entry.Plan,
				entry.PriceCents,
				formatCeiling(entry.Limits.ResumeScans),
				formatCeiling(entry.Limits.CoverLetters),
				formatCeiling(entry.Limits.InterviewQuestions),
				entry.Limits.JobSearch,
			)
		}
		return nil
	},
}

func init() {
	planCmd.AddCommand(planSetCmd, planListCmd)
	rootCmd.AddCommand(planCmd)
}
