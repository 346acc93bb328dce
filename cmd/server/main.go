// Package main provides the entry point for the picks pipeline service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/calibration"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/database"
	"github.com/yourusername/peytons-picks/internal/grading"
	"github.com/yourusername/peytons-picks/internal/logger"
	"github.com/yourusername/peytons-picks/internal/metrics"
	"github.com/yourusername/peytons-picks/internal/model"
	"github.com/yourusername/peytons-picks/internal/picks"
	"github.com/yourusername/peytons-picks/internal/provider"
	"github.com/yourusername/peytons-picks/internal/repository"
	"github.com/yourusername/peytons-picks/internal/scheduler"
	"github.com/yourusername/peytons-picks/internal/server"
)

func main() {
	configPath := os.Getenv("PEYTONS_PICKS_CONFIG")
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"curve":       cfg.Pipeline.Curve,
	}).Info("Picks pipeline starting")

	metrics.InitRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize schema")
	}
	appLog.Info("Database ready")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	curve, err := model.ForName(cfg.Pipeline.Curve)
	if err != nil {
		appLog.WithError(err).Fatal("Bad curve configuration")
	}

	httpCfg := provider.DefaultHTTPClientConfig()
	httpCfg.RateLimit = cfg.Providers.Odds.RateLimit
	httpClient := provider.NewRateLimitedHTTPClient(httpCfg, appLog)
	defer httpClient.Close()

	oddsClient := provider.NewOddsClient(httpClient, cfg.Providers.Odds, appLog)
	scoresClient := provider.NewScoresClient(httpClient, cfg.Providers.Scores, appLog)
	refresher := provider.NewMarketRefresher(oddsClient, repos, appLog)
	fetcher := provider.NewScoreFetcher(scoresClient, repos, appLog)
	importer := provider.NewScheduleImporter(repos, appLog)

	scoring := picks.NewScoringService(repos, picks.NewSelector(curve), appLog)
	grader := grading.NewService(repos, appLog)
	calibrator := calibration.NewCalibrator(repos, appLog)

	srv := server.New(server.Deps{
		Scorer:     scoring,
		Grader:     grader,
		Calibrator: calibrator,
		Importer:   importer,
		DB:         db,
	}, cfg.Server, cfg.Metrics, cfg.Pipeline.CalibrationWindow, appLog)

	if err := srv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start trigger server")
	}

	if cfg.Schedule.Enabled {
		sched := scheduler.New(refresher, fetcher, cfg.Schedule, appLog)
		if err := sched.ScheduleJobs(); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule jobs")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		defer sched.Stop()
		appLog.WithField("next_run", sched.NextRun()).Info("Scheduler running")
	}

	srv.SetReady(true)
	appLog.WithField("port", cfg.Server.Port).Info("Pipeline ready")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	srv.SetReady(false)
	if err := srv.Shutdown(); err != nil {
		appLog.WithError(err).Error("Trigger server shutdown failed")
	}
}
