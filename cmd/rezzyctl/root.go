package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rezzy/server/internal/adapter/outbound/postgres"
	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/shared/config"
	"github.com/rezzy/server/internal/shared/database"
	"github.com/rezzy/server/internal/shared/logger"
)

const app = "rezzyctl"

// Actual version can be specified in build command.
var version = "unknown"

var (
	cfg    *config.Config
	log    *zap.Logger
	asJSON bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "rezzyctl administers plans and usage of the Rezzy server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == versionCmd.Name() {
				return nil
			}
			return initConfig()
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s version: %s\n", app, version)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&asJSON, "json", "j", false, "print results as JSON")
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	_ = godotenv.Load()

	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	log, err = logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	return nil
}

// openDatabase connects to the configured database. The caller closes it.
func openDatabase() (*gorm.DB, error) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// newBillingDomain builds the billing domain on top of db.
func newBillingDomain(db *gorm.DB) *billing.Domain {
	userDB := postgres.NewUserAdapter(db)
	usageDB := postgres.NewUsagePeriodAdapter(db)
	gate := billing.NewGate(userDB, usageDB, billing.PlanTableFromConfig(&cfg.Plans), time.Now)
	return billing.NewBillingDomain(gate, userDB, usageDB, nil, log.Named("billing"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
