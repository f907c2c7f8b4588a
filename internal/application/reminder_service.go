package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/metrics"
	"github.com/bnema/yolka/internal/ports"
)

const ReminderDelay = 900 * time.Second

// ReminderService nudges users who stop picking. Every interaction schedules
// a reminder tied to its activity timestamp; only the reminder matching the
// session's latest activity is ever sent.
type ReminderService struct {
	selection *SelectionService
	scheduler ports.Scheduler
	messenger ports.Messenger
	logger    *slog.Logger
}

func NewReminderService(selection *SelectionService, scheduler ports.Scheduler, messenger ports.Messenger, logger *slog.Logger) *ReminderService {
	return &ReminderService{
		selection: selection,
		scheduler: scheduler,
		messenger: messenger,
		logger:    applog.OrDiscard(logger),
	}
}

func (r *ReminderService) Schedule(userID domain.UserID, chatID int64, activity time.Time) {
	r.scheduler.After(ReminderDelay, func(ctx context.Context) {
		r.Fire(ctx, userID, chatID, activity)
	})
}

// Fire sends the reminder if activity is still current and reports whether
// it did. The message goes out after the check, so an interaction racing the
// send may still see one late reminder.
func (r *ReminderService) Fire(ctx context.Context, userID domain.UserID, chatID int64, activity time.Time) bool {
	current, err := r.selection.IsCurrent(ctx, userID, activity)
	if err == nil && current {
		err = r.messenger.Deliver(ctx, domain.Action{
			Kind:   domain.ActionSendText,
			ChatID: chatID,
			Text:   ReminderText,
		})
	}

	switch {
	case err != nil:
		metrics.RemindersTotal.WithLabelValues("failed").Inc()
		r.logger.Warn("reminder failed", "user_id", userID, "error", err)
		return false
	case !current:
		metrics.RemindersTotal.WithLabelValues("stale").Inc()
		r.logger.Debug("reminder stale", "user_id", userID)
		return false
	default:
		metrics.RemindersTotal.WithLabelValues("sent").Inc()
		r.logger.Info("reminder sent", "user_id", userID)
		return true
	}
}
