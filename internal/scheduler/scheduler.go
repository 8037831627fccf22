package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/config"
	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/repository/mongodb"
	"github.com/mamadbah2/cattlehealth/internal/service/notify"
)

const digestTimeout = 2 * time.Minute

// ReportBuilder produces the digest of the current day.
type ReportBuilder interface {
	DailyReport(ctx context.Context) models.DailyHerdReport
}

// Scheduler runs the daily herd digest.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	builder   ReportBuilder
	reports   mongodb.ReportRepository
	messenger notify.Messenger
	logger    *zap.Logger
}

// NewScheduler creates a scheduler firing on cfg.CronSchedule in cfg.Timezone.
// reports and messenger are optional.
func NewScheduler(cfg config.ReportingConfig, builder ReportBuilder, reports mongodb.ReportRepository, messenger notify.Messenger, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		schedule:  cfg.CronSchedule,
		builder:   builder,
		reports:   reports,
		messenger: messenger,
		logger:    logger,
	}, nil
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDigestJob); err != nil {
		return fmt.Errorf("schedule daily digest: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigestJob() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.RunDailyDigest(ctx); err != nil {
		s.logger.Error("daily digest failed", zap.Error(err))
		return
	}
	s.logger.Info("daily digest completed")
}

// RunDailyDigest builds today's report, stores it and sends it. Storage and
// delivery failures are both attempted and joined.
func (s *Scheduler) RunDailyDigest(ctx context.Context) error {
	report := s.builder.DailyReport(ctx)
	s.logger.Info("daily digest generated",
		zap.Time("date", report.Date),
		zap.Int("cattle", report.TotalCattle),
		zap.Int("alerts", len(report.Alerts)))

	var errs []error

	if s.reports != nil {
		if err := s.reports.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}

	if s.messenger != nil {
		err := s.messenger.SendDigest(ctx, report)
		switch {
		case errors.Is(err, notify.ErrDisabled):
			s.logger.Debug("digest delivery skipped", zap.Error(err))
		case err != nil:
			errs = append(errs, fmt.Errorf("send digest: %w", err))
		}
	}

	return errors.Join(errs...)
}
