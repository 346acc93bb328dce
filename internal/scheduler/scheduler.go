// Package scheduler runs the recurring provider refreshes on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/peytons-picks/internal/config"
	"github.com/yourusername/peytons-picks/internal/provider"
)

const jobTimeout = 10 * time.Minute

// Scheduler manages the recurring market and score refresh jobs. Jobs always
// target the configured current week; week rollover is a config change, not a
// code path.
type Scheduler struct {
	cron      *cron.Cron
	refresher *provider.MarketRefresher
	fetcher   *provider.ScoreFetcher
	cfg       config.ScheduleConfig
	log       *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// New creates a scheduler over the provider services.
func New(refresher *provider.MarketRefresher, fetcher *provider.ScoreFetcher, cfg config.ScheduleConfig, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		fetcher:   fetcher,
		cfg:       cfg,
		log:       log,
	}
}

// ScheduleJobs registers the configured cron entries. Either expression may
// be empty to skip that job.
func (s *Scheduler) ScheduleJobs() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule jobs while scheduler is running")
	}

	if expr := s.cfg.MarketRefreshCron; expr != "" {
		id, err := s.cron.AddFunc(expr, s.runMarketRefresh)
		if err != nil {
			return fmt.Errorf("scheduling market refresh %q: %w", expr, err)
		}
		s.jobIDs = append(s.jobIDs, id)
	}

	if expr := s.cfg.ScoreFetchCron; expr != "" {
		id, err := s.cron.AddFunc(expr, s.runScoreFetch)
		if err != nil {
			return fmt.Errorf("scheduling score fetch %q: %w", expr, err)
		}
		s.jobIDs = append(s.jobIDs, id)
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no cron expressions configured")
	}
	return nil
}

func (s *Scheduler) runMarketRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	week := s.cfg.CurrentWeek
	written, err := s.refresher.RefreshWeek(ctx, week)
	if err != nil {
		s.log.WithError(err).WithField("week", week).Error("Scheduled market refresh failed")
		return
	}
	s.log.WithFields(logrus.Fields{"week": week, "written": written}).Info("Scheduled market refresh completed")
}

func (s *Scheduler) runScoreFetch() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	week := s.cfg.CurrentWeek
	written, err := s.fetcher.FetchWeek(ctx, week)
	if err != nil {
		s.log.WithError(err).WithField("week", week).Error("Scheduled score fetch failed")
		return
	}
	s.log.WithFields(logrus.Fields{"week": week, "written": written}).Info("Scheduled score fetch completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for any running job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job time, or the zero time when idle.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}
	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
