// Package main provides the entry point for the daily recommendation pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/analyzer"
	"github.com/yourusername/courtside/internal/collector"
	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/health"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/metrics"
	"github.com/yourusername/courtside/internal/notify"
	"github.com/yourusername/courtside/internal/pipeline"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/scheduler"
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
	dateFlag   string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "Slate date as YYYY-MM-DD (defaults to today, UTC)")

	rootCmd.AddCommand(scoutCmd)
	rootCmd.AddCommand(finalCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "NBA betting recommendation pipeline",
	Long: `Screens each day's NBA slate in two passes: a morning scout run that
builds a watch list, and a pre-tipoff final run that re-scores those games
against current lines and selects at most one recommended bet.`,
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
}

var scoutCmd = &cobra.Command{
	Use:   "scout",
	Short: "Screen the slate and build the day's watch list",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := slateDate()
		if err != nil {
			return err
		}

		summary, err := buildPipeline().Scout(cmd.Context(), date)
		if err != nil {
			return err
		}

		fmt.Printf("Scout complete: %d games analyzed, %d watch-listed\n", summary.TotalContests, len(summary.Items))
		for _, item := range summary.Items {
			fmt.Printf("  %s  confidence %.1f  lean %s\n", item.Contest.Matchup(), item.Confidence, item.EarlyLean)
		}
		return nil
	},
}

var finalCmd = &cobra.Command{
	Use:   "final",
	Short: "Re-score the watch list and select the daily pick",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := slateDate()
		if err != nil {
			return err
		}

		summary, err := buildPipeline().Final(cmd.Context(), date)
		if err != nil {
			return err
		}

		printFinal(summary)
		return nil
	},
}

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Run scout and final back to back",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := slateDate()
		if err != nil {
			return err
		}

		summary, err := buildPipeline().Run(cmd.Context(), date)
		if err != nil {
			return err
		}

		printFinal(summary)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run both phases on their daily schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
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

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Courtside analyst starting")

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func buildPipeline() *pipeline.Pipeline {
	httpClient := collector.NewRateLimitedHTTPClient(collector.HTTPClientConfig{
		Timeout:      time.Duration(cfg.Collectors.TimeoutSeconds) * time.Second,
		RetryTimeout: time.Duration(cfg.Collectors.RetryTimeoutSeconds) * time.Second,
		RateLimit:    cfg.Collectors.RateLimit,
		UserAgent:    fmt.Sprintf("%s/%s", cfg.App.Name, Version),
	}, appLog)

	signals := collector.NewSignals(repos, time.Duration(cfg.Collectors.CacheTTLSeconds)*time.Second, appLog)
	refresher := &collector.Refresher{
		Stats:   collector.NewStatsCollector(repos.TeamSnapshot, appLog),
		Injury:  collector.NewInjuryCollector(httpClient, repos.Availability, appLog),
		Odds:    collector.NewOddsCollector(httpClient, repos.MarketLine, cfg.Collectors.OddsAPIKey, appLog),
		Signals: signals,
		Logger:  appLog,
	}

	return pipeline.New(pipeline.Options{
		Engine:    cfg.Engine,
		Features:  cfg.Features,
		Repos:     repos,
		Schedule:  collector.NewScheduleCollector(httpClient, repos.Contest, cfg.Collectors.ScheduleURL, cfg.Collectors.DaysAhead, appLog),
		Refresher: refresher,
		Signals:   signals,
		Scorer:    analyzer.NewScorer(appLog),
		RecEngine: analyzer.NewEngine(cfg.Engine, appLog),
		Tracker:   tracker.NewTracker(repos, appLog),
		Notifier:  notify.FromConfig(cfg.Notify.Enabled, cfg.Notify.WebhookURL, cfg.Notify.Channel, appLog),
		Logger:    appLog,
	})
}

func runServe(ctx context.Context) error {
	metrics.InitRegistry()

	var healthServer *health.Server
	if cfg.Metrics.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
			Logger:      appLog,
			DB:          db,
			Metrics:     metrics.Handler(),
			MetricsPath: cfg.Metrics.Path,
		})
	}

	sched := scheduler.NewScheduler(buildPipeline(), appLog)
	if err := sched.ScheduleScout(cfg.Schedule.ScoutCron); err != nil {
		return fmt.Errorf("failed to schedule scout phase: %w", err)
	}
	if err := sched.ScheduleFinal(cfg.Schedule.FinalCron); err != nil {
		return fmt.Errorf("failed to schedule final phase: %w", err)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if healthServer != nil {
		if err := healthServer.Start(serveCtx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	if healthServer != nil {
		healthServer.SetReady(true)
	}

	appLog.WithFields(logrus.Fields{
		"scout_cron": cfg.Schedule.ScoutCron,
		"final_cron": cfg.Schedule.FinalCron,
		"next_run":   sched.GetNextRun().Format(time.RFC3339),
	}).Info("Serving daily schedule")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig.String()).Info("Shutdown signal received")
	case <-serveCtx.Done():
	}

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	return sched.Stop()
}

func slateDate() (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", dateFlag, err)
	}
	return date, nil
}

func printFinal(summary *notify.FinalSummary) {
	if summary.DailyPick == nil {
		fmt.Println("Final complete: no qualifying bets today")
		return
	}

	pick := summary.DailyPick
	fmt.Printf("Daily pick: %s\n", pick.Selection)
	fmt.Printf("  %s @ %s (%s)\n", pick.AwayTeam, pick.HomeTeam, pick.Tipoff)
	fmt.Printf("  confidence %.1f  EV %.1f%%  stake $%.2f  risk %s\n",
		pick.Confidence, pick.ExpectedValue, pick.Stake, pick.RiskTier)
	for _, reason := range pick.Reasoning {
		fmt.Printf("  - %s\n", reason)
	}
	if len(summary.Alternatives) > 0 {
		fmt.Printf("Also qualified: %d other game(s)\n", len(summary.Alternatives))
	}
	if summary.SeasonRecord != "" {
		fmt.Printf("Season %s, last 10: %s\n", summary.SeasonRecord, summary.RecentForm)
	}
}
