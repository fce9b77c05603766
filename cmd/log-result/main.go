// Package main provides the entry point for logging bet results.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/tracker"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "log-result [contest-id] [win|loss|push]",
	Short: "Record the outcome of a recommended bet",
	Long: `Resolves a pending recommendation against its real-world result and
records the realized profit or loss at standard -110 odds. Run with no
arguments to list recommendations still awaiting a result.`,
	Args:         cobra.RangeArgs(0, 2),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		trk := tracker.NewTracker(repos, appLog)

		if len(args) == 0 {
			return listPending(ctx, trk)
		}
		if len(args) != 2 {
			return fmt.Errorf("expected contest-id and result, got %d argument(s)", len(args))
		}
		return logResult(ctx, trk, args[0], args[1])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func listPending(ctx context.Context, trk *tracker.Tracker) error {
	pending, err := trk.Pending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending bets: %w", err)
	}

	if len(pending) == 0 {
		fmt.Println("No pending bets")
		return nil
	}

	fmt.Printf("%d pending bet(s):\n", len(pending))
	for _, outcome := range pending {
		fmt.Printf("  %s  %s  $%s  placed %s\n",
			outcome.ContestID,
			outcome.Selection,
			outcome.Stake.StringFixed(2),
			outcome.PlacedAt.Format("2006-01-02"))
	}
	fmt.Println("\nUsage: log-result <contest-id> <win|loss|push>")
	return nil
}

func logResult(ctx context.Context, trk *tracker.Tracker, contestID, resultArg string) error {
	result, err := models.ParseBetResult(resultArg)
	if err != nil {
		return err
	}

	outcome, err := trk.LogResult(ctx, contestID, result)
	if err != nil {
		return fmt.Errorf("failed to log result: %w", err)
	}
	metrics.RecordResultLogged(string(result))

	fmt.Printf("Recorded %s for %s: %s, P/L $%s\n",
		result,
		outcome.ContestID,
		outcome.Selection,
		outcome.ProfitLoss.StringFixed(2))
	return nil
}
