package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/alerts"
	"green-gauge/green-gauge-backend/internal/snapshot"
)

// Scheduler runs the periodic background jobs: the usage alert scan and the
// state snapshot.
type Scheduler struct {
	cron        *cron.Cron
	alertEngine *alerts.Engine
	snapshotter *snapshot.Snapshotter
	logger      *zap.Logger
}

func New(alertEngine *alerts.Engine, snapshotter *snapshot.Snapshotter, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		alertEngine: alertEngine,
		snapshotter: snapshotter,
		logger:      logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start(alertScanSpec, snapshotSpec string) error {
	if _, err := s.cron.AddFunc(alertScanSpec, s.runAlertScan); err != nil {
		return fmt.Errorf("failed to schedule alert scan: %w", err)
	}
	if _, err := s.cron.AddFunc(snapshotSpec, s.runSnapshot); err != nil {
		return fmt.Errorf("failed to schedule snapshot: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("alert_scan", alertScanSpec),
		zap.String("snapshot", snapshotSpec))
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runAlertScan() {
	created := s.alertEngine.ScanAllRecent()
	if created > 0 {
		s.logger.Info("usage scan completed", zap.Int("alerts_created", created))
	}
}

func (s *Scheduler) runSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.snapshotter.Save(ctx); err != nil {
		s.logger.Error("scheduled snapshot failed", zap.Error(err))
	}
}
