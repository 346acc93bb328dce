// Package main provides the picks command line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/peytons-picks/internal/calibration"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/grading"
	"github.com/yourusername/peytons-picks/internal/logger"
	"github.com/yourusername/peytons-picks/internal/model"
	"github.com/yourusername/peytons-picks/internal/picks"
	"github.com/yourusername/peytons-picks/internal/provider"
	"github.com/yourusername/peytons-picks/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	week       int
	window     int

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

const runTimeout = 5 * time.Minute

var rootCmd = &cobra.Command{
	Use:   "picks",
	Short: "Weekly confidence pipeline",
	Long:  `Runs the weekly pipeline by hand: import the line sheet, refresh the market, score, grade and recalibrate.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	scoreCmd.Flags().IntVarP(&week, "week", "w", 0, "Week to score")
	scoreCmd.MarkFlagRequired("week")
	gradeCmd.Flags().IntVarP(&week, "week", "w", 0, "Week to grade")
	gradeCmd.MarkFlagRequired("week")
	boardCmd.Flags().IntVarP(&week, "week", "w", 0, "Week to list")
	boardCmd.MarkFlagRequired("week")
	refreshCmd.Flags().IntVarP(&week, "week", "w", 0, "Week to refresh")
	refreshCmd.MarkFlagRequired("week")
	scoresCmd.Flags().IntVarP(&week, "week", "w", 0, "Week to fetch finals for")
	scoresCmd.MarkFlagRequired("week")
	recalibrateCmd.Flags().IntVarP(&week, "through-week", "w", 0, "Most recent completed week")
	recalibrateCmd.MarkFlagRequired("through-week")
	recalibrateCmd.Flags().IntVar(&window, "window", 0, "Trailing window in weeks (default from config)")

	rootCmd.AddCommand(importCmd, refreshCmd, scoresCmd, scoreCmd, gradeCmd, recalibrateCmd, boardCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	appLog = logger.New(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("initializing repositories: %w", err)
	}
	return nil
}

func runCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), runTimeout)
}

var importCmd = &cobra.Command{
	Use:   "import <sheet.csv>",
	Short: "Import the weekly opening line sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, cancel := runCtx()
		defer cancel()

		importer := provider.NewScheduleImporter(repos, appLog)
		n, err := importer.ImportCSV(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d games\n", n)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh-market",
	Short: "Refresh market snapshots for a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		httpCfg := provider.DefaultHTTPClientConfig()
		httpCfg.RateLimit = cfg.Providers.Odds.RateLimit
		httpClient := provider.NewRateLimitedHTTPClient(httpCfg, appLog)
		defer httpClient.Close()

		odds := provider.NewOddsClient(httpClient, cfg.Providers.Odds, appLog)
		n, err := provider.NewMarketRefresher(odds, repos, appLog).RefreshWeek(ctx, week)
		if err != nil {
			return err
		}
		fmt.Printf("Refreshed %d snapshots for week %d\n", n, week)
		return nil
	},
}

var scoresCmd = &cobra.Command{
	Use:   "fetch-scores",
	Short: "Record final scores for a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		httpClient := provider.NewRateLimitedHTTPClient(provider.DefaultHTTPClientConfig(), appLog)
		defer httpClient.Close()

		scores := provider.NewScoresClient(httpClient, cfg.Providers.Scores, appLog)
		n, err := provider.NewScoreFetcher(scores, repos, appLog).FetchWeek(ctx, week)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %d finals for week %d\n", n, week)
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a week and store its predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		curve, err := model.ForName(cfg.Pipeline.Curve)
		if err != nil {
			return err
		}
		svc := picks.NewScoringService(repos, picks.NewSelector(curve), appLog)
		summary, err := svc.ScoreWeek(ctx, week)
		if err != nil {
			return err
		}
		fmt.Printf("Week %d: %d games, %d picks stored, %d skipped, %d fallbacks\n",
			summary.Week, summary.Games, summary.Upserts, summary.Skipped, summary.Fallbacks)
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a completed week",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		summary, err := grading.NewService(repos, appLog).GradeWeek(ctx, week)
		if err != nil {
			return err
		}
		fmt.Printf("Week %d: %d graded (%d pushes), %d pending, %d skipped\n",
			summary.Week, summary.Graded, summary.Pushes, summary.Pending, summary.Skipped)
		return nil
	},
}

var recalibrateCmd = &cobra.Command{
	Use:   "recalibrate",
	Short: "Refit the probability correction from graded history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		w := window
		if w <= 0 {
			w = cfg.Pipeline.CalibrationWindow
		}
		res, err := calibration.NewCalibrator(repos, appLog).Recalibrate(ctx, week, w)
		if err != nil {
			return err
		}
		fmt.Printf("Weeks %d-%d (%d picks): a=%.2f b=%.2f logloss=%.4f\n",
			res.FromWeek, res.ThroughWeek, res.Rows, res.CalA, res.CalB, res.LogLoss)
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the ranked weekly board",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := runCtx()
		defer cancel()

		rows, err := repos.Prediction.ListByWeek(ctx, week)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s %-28s %-28s %-8s %-7s\n", "RANK", "MATCHUP", "PICK", "PROB", "SCORE")
		rank := 0
		for _, row := range rows {
			matchup := fmt.Sprintf("%s @ %s", row.Game.AwayTeam, row.Game.HomeTeam)
			if !row.Ranked() {
				fmt.Printf("%-4s %-28s %-28s %-8s %-7s\n", "-", matchup, "(no pick)", "-", "-")
				continue
			}
			rank++
			fmt.Printf("%-4d %-28s %-28s %-8.3f %-7.1f\n",
				rank, matchup, fmt.Sprintf("%s (%s)", *row.PickTeam, *row.PickSide), *row.CoverProb, *row.Score)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("picks %s (%s)\n", Version, GitCommit)
	},
}
