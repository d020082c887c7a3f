package scheduler

import (
	"context"
	"time"

	"substitution_notification_bot/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// tickTimeout bounds a single dispatch: one portal fetch plus fan-out.
const tickTimeout = 5 * time.Minute

type NotificationScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	logger       *logrus.Entry
	interval     time.Duration
	location     *time.Location
}

func NewNotificationScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	interval time.Duration, // e.g. time.Minute
	location *time.Location, // calendar used for weekday and hour checks
) *NotificationScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &NotificationScheduler{
		cronEngine: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		notifService: notifService,
		logger:       logger,
		interval:     interval,
		location:     location,
	}
}

func (s *NotificationScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting notification scheduler")
	s.cronEngine.Schedule(cron.Every(s.interval), cron.FuncJob(s.runTick))
	s.cronEngine.Start()
}

func (s *NotificationScheduler) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	report := s.notifService.Tick(ctx, time.Now().In(s.location))
	if report.Skipped != app.SkipNone {
		s.logger.WithField("reason", report.Skipped).Debug("Dispatch tick skipped")
	}
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}
