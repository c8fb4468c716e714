package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/database"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect and reset monthly usage",
}

var usageShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show the plan, ceilings and usage of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		billingDomain := newBillingDomain(db)
		status, err := billingDomain.GetPlanStatus(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("getting plan status: %w", err)
		}

		months, _ := cmd.Flags().GetInt("months")
		history, err := billingDomain.ListUsage(cmd.Context(), args[0], months)
		if err != nil {
			return fmt.Errorf("listing usage: %w", err)
		}

		if asJSON {
			return printJSON(map[string]any{"status": status, "history": history})
		}

		fmt.Printf("user:    %s\nplan:    %s (table %s)\n", status.UserID, status.Plan, status.PlanVersion)
		fmt.Printf("month:   %s\n", status.Usage.Month)
		fmt.Printf("  scans                %d / %s\n", status.Usage.ScansUsed, formatCeiling(status.Limits.ResumeScans))
		fmt.Printf("  cover letters        %d / %s\n", status.Usage.CoverLettersGenerated, formatCeiling(status.Limits.CoverLetters))
		fmt.Printf("  interview questions  %d / %s\n", status.Usage.InterviewQuestionsGenerated, formatCeiling(status.Limits.InterviewQuestions))

		if len(history) > 0 {
			fmt.Println("history:")
			for _, u := range history {
				fmt.Printf("  %s  scans=%d cover_letters=%d interview_questions=%d\n",
					u.Month, u.ScansUsed, u.CoverLettersGenerated, u.InterviewQuestionsGenerated)
			}
		}
		return nil
	},
}

var usageResetCmd = &cobra.Command{
	Use:   "reset <user-id> [month]",
	Short: "Zero the counters of a month (default: current month)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		var month string
		if len(args) == 2 {
			month = args[1]
		}
		if err := newBillingDomain(db).ResetUsage(cmd.Context(), args[0], month); err != nil {
			return fmt.Errorf("resetting usage: %w", err)
		}
		log.Info("usage reset")
		return nil
	},
}

func formatCeiling(ceiling int) string {
	if ceiling == outbound.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(ceiling)
}

func init() {
	usageShowCmd.Flags().Int("months", 12, "number of past months to list")
	usageCmd.AddCommand(usageShowCmd, usageResetCmd)
	rootCmd.AddCommand(usageCmd)
}
