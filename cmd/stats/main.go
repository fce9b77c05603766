// Package main provides the entry point for the performance report.
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
	Use:   "stats",
	Short: "Show season performance and confidence calibration",
	Long: `Aggregates every resolved bet into a season record, recent form, and a
per-confidence-tier breakdown. If confidence is predictive, the higher
tiers should win more often and wins should carry the higher average
confidence.`,
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
		return displayPerformance(ctx)
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
	appLog = logger.NewLogger("warn")

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

func displayPerformance(ctx context.Context) error {
	trk := tracker.NewTracker(repos, appLog)

	report, err := trk.Performance(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute performance: %w", err)
	}

	season := report.Season
	fmt.Println("=== Season Performance ===")
	if season.TotalBets == 0 {
		fmt.Println("No resolved bets yet")
		return nil
	}

	fmt.Printf("Record:       %s\n", season.Record())
	fmt.Printf("Win rate:     %.1f%%\n", season.WinRate())
	fmt.Printf("Wagered:      $%s\n", season.TotalWagered.StringFixed(2))
	fmt.Printf("Net profit:   $%s\n", season.NetProfit.StringFixed(2))
	fmt.Printf("ROI:          %.1f%%\n", season.ROI())
	fmt.Printf("Avg confidence on wins:   %.1f\n", season.AvgConfidenceWins)
	fmt.Printf("Avg confidence on losses: %.1f\n", season.AvgConfidenceLosses)

	form := report.Form
	fmt.Printf("\nLast 10: %s ($%s)\n", form.Record(), form.Profit.StringFixed(2))

	if len(report.Tiers) > 0 {
		fmt.Println("\n=== Confidence Tiers ===")
		for _, tier := range report.Tiers {
			fmt.Printf("%-8s %d bets, %.1f%% wins, $%s\n",
				tier.Tier, tier.Count, tier.WinRate(), tier.Profit.StringFixed(2))
		}
	}

	return nil
}
