package scheduler

import (
	"context"
	"fmt"
	"time"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/config"
	"golfref/archival/internal/metrics"
	"golfref/archival/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler manages background tasks for the archival worker:
//   - nightly re-archival of the most recent completed year, so late edits to
//     the operational tables keep flowing into career records
//   - periodic connection pool gauge refresh
//
// The nightly run never purges source data; purges stay operator-driven.
type Scheduler struct {
	cfg      *config.Config
	engine   *archive.Engine
	db       *repository.Database
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, engine *archive.Engine, db *repository.Database) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		engine:   engine,
		db:       db,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.NightlyArchiveCron, func() {
		log.Info().Msg("Running nightly archival refresh...")
		if err := s.refreshLastCompletedYear(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly archival refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly archival: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyArchiveCron).
		Msg("Nightly archival refresh scheduled")

	s.ticker = time.NewTicker(s.cfg.PoolStatsInterval)
	go s.pollPoolStats(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// refreshLastCompletedYear re-archives the previous calendar year for every
// active referee. Re-running is safe: each referee's year slots are replaced
// wholesale, so unchanged sources yield unchanged records.
func (s *Scheduler) refreshLastCompletedYear(ctx context.Context) error {
	refYear := time.Now().UTC().Year()
	year := refYear - 1

	res, err := s.engine.ArchiveYear(ctx, year, false, refYear)
	if err != nil {
		return fmt.Errorf("failed to archive year %d: %w", year, err)
	}

	if count, err := s.db.Careers.Count(ctx); err == nil {
		metrics.CareerRecordsTotal.Set(float64(count))
	}

	log.Info().
		Int("year", year).
		Int("referees", res.RefereesProcessed).
		Int("errors", len(res.Errors)).
		Msg("Nightly archival refresh complete")

	return nil
}

// pollPoolStats periodically refreshes the connection pool gauges
func (s *Scheduler) pollPoolStats(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping pool stats polling")
			return
		case <-s.stopChan:
			return
		case <-s.ticker.C:
			stat := s.db.Pool.Stat()
			metrics.UpdateDBConnectionStats(stat.AcquiredConns(), stat.IdleConns())
		}
	}
}
