// internal/app/notification_service.go
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"substitution_notification_bot/internal/domain/subscription"
	"substitution_notification_bot/internal/domain/substitution"
	domainTelegram "substitution_notification_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService runs one evaluation of the automatic notification schedule.
type NotificationService interface {
	// Tick checks whether now falls in the notification window and, if so, sends
	// the next day's substitutions to every community not yet notified today.
	Tick(ctx context.Context, now time.Time) TickReport
}

// SkipReason explains why a tick ended before fan-out.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipWeekend        SkipReason = "weekend"
	SkipOutsideWindow  SkipReason = "outside_window"
	SkipNoSchoolDay    SkipReason = "target_day_not_school_day"
	SkipNothingPending SkipReason = "nothing_pending"
)

// TickReport summarises a single tick.
type TickReport struct {
	Skipped     SkipReason
	TargetDate  time.Time
	Communities int // communities claimed and dispatched in this tick
	Delivered   int
	Failed      int
}

// Window is the hour range [StartHour, EndHour) in which notifications go out.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow is 20:00 to 23:00 local time.
var DefaultWindow = Window{StartHour: 20, EndHour: 23}

func (w Window) contains(t time.Time) bool {
	return t.Hour() >= w.StartHour && t.Hour() < w.EndHour
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	subs           subscription.Repository
	fetcher        substitution.Fetcher
	telegramClient domainTelegram.Client
	window         Window
	logger         *logrus.Entry
}

func NewNotificationServiceImpl(
	subs subscription.Repository,
	fetcher substitution.Fetcher,
	tc domainTelegram.Client,
	window Window,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		subs:           subs,
		fetcher:        fetcher,
		telegramClient: tc,
		window:         window,
		logger:         logger,
	}
}

type pendingCommunity struct {
	id      subscription.CommunityID
	members []subscription.Member
}

func (s *NotificationServiceImpl) Tick(ctx context.Context, now time.Time) TickReport {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return TickReport{Skipped: SkipWeekend}
	}
	if !s.window.contains(now) {
		return TickReport{Skipped: SkipOutsideWindow}
	}

	today := substitution.DateOnly(now)
	target := substitution.NextDay(now)
	if now.Weekday() == time.Friday && target.Weekday() == time.Saturday {
		return TickReport{Skipped: SkipNoSchoolDay, TargetDate: target}
	}

	pending := s.pendingCommunities(today)
	if len(pending) == 0 {
		return TickReport{Skipped: SkipNothingPending, TargetDate: target}
	}

	log := s.logger.WithFields(logrus.Fields{
		"run_id":      uuid.NewString(),
		"target_date": target.Format(substitution.DateLayout),
	})
	log.WithField("pending_communities", len(pending)).Info("Dispatching substitution notifications")

	records := substitution.FetchOrEmpty(ctx, s.fetcher, target, substitution.ModeClasses, log)

	var (
		wg        sync.WaitGroup
		claimed   atomic.Int32
		delivered atomic.Int32
		failed    atomic.Int32
	)
	for _, pc := range pending {
		wg.Add(1)
		go func(pc pendingCommunity) {
			defer wg.Done()
			// Claiming before sending keeps a concurrent tick from dispatching the same day twice.
			if !s.subs.ClaimDay(pc.id, today) {
				log.WithField("community_id", pc.id).Debug("Community already notified today")
				return
			}
			claimed.Add(1)
			ok, bad := s.dispatchCommunity(pc, target, records, log)
			delivered.Add(int32(ok))
			failed.Add(int32(bad))
		}(pc)
	}
	wg.Wait()

	report := TickReport{
		TargetDate:  target,
		Communities: int(claimed.Load()),
		Delivered:   int(delivered.Load()),
		Failed:      int(failed.Load()),
	}
	log.WithFields(logrus.Fields{
		"communities": report.Communities,
		"delivered":   report.Delivered,
		"failed":      report.Failed,
	}).Info("Dispatch finished")
	return report
}

// pendingCommunities lists communities not notified on today that have at least
// one member with both a class and a target. Communities without such members are
// left unmarked so that members who subscribe later in the window still get notified.
func (s *NotificationServiceImpl) pendingCommunities(today time.Time) []pendingCommunity {
	var pending []pendingCommunity
	for _, id := range s.subs.Communities() {
		if last, ok := s.subs.LastNotifiedDate(id); ok && last.Equal(today) {
			continue
		}
		var members []subscription.Member
		for _, m := range s.subs.ListByCommunity(id) {
			if m.Complete() {
				members = append(members, m)
			}
		}
		if len(members) > 0 {
			pending = append(pending, pendingCommunity{id: id, members: members})
		}
	}
	return pending
}

func (s *NotificationServiceImpl) dispatchCommunity(pc pendingCommunity, target time.Time, records []substitution.Record, log *logrus.Entry) (delivered, failed int) {
	for _, m := range pc.members {
		text := FormatNotification(m.SelectedClass, target, substitution.FilterByClass(records, m.SelectedClass))

		memberLog := log.WithFields(logrus.Fields{
			"community_id": pc.id,
			"member_id":    m.ID,
			"chat_id":      m.Target,
			"class":        m.SelectedClass,
		})
		if err := s.telegramClient.SendMessage(int64(m.Target), text, nil); err != nil {
			memberLog.WithError(err).Error("Failed to deliver substitution notification")
			failed++
			continue
		}
		memberLog.Debug("Substitution notification delivered")
		delivered++
	}
	return delivered, failed
}
