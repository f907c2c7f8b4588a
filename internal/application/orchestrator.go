package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/metrics"
	"github.com/bnema/yolka/internal/ports"
)

const ResultFilename = "result.png"

// Orchestrator turns inbound events into session changes and outbound
// actions. Delivery failures are logged and counted, never returned: the
// session state is already committed when the messenger is called.
type Orchestrator struct {
	selection *SelectionService
	reminders *ReminderService
	renders   RenderQueue
	messenger ports.Messenger
	logger    *slog.Logger
}

func NewOrchestrator(selection *SelectionService, reminders *ReminderService, renders RenderQueue, messenger ports.Messenger, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		selection: selection,
		reminders: reminders,
		renders:   renders,
		messenger: messenger,
		logger:    applog.OrDiscard(logger),
	}
}

func (o *Orchestrator) Handle(ctx context.Context, event domain.Event) error {
	metrics.EventsTotal.WithLabelValues(string(event.Kind)).Inc()

	switch event.Kind {
	case domain.EventStart:
		return o.handleStart(ctx, event)
	case domain.EventPage:
		return o.handlePage(ctx, event)
	case domain.EventPick:
		return o.handlePick(ctx, event)
	case domain.EventText:
		o.deliver(ctx, domain.Action{Kind: domain.ActionSendText, ChatID: event.ChatID, Text: HintText})
		return nil
	default:
		return fmt.Errorf("unsupported event kind %q", event.Kind)
	}
}

func (o *Orchestrator) handleStart(ctx context.Context, event domain.Event) error {
	session, err := o.selection.Start(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	keyboard, err := o.keyboard(session)
	if err != nil {
		return err
	}

	o.deliver(ctx, domain.Action{
		Kind:     domain.ActionSendPhoto,
		ChatID:   event.ChatID,
		Photo:    &domain.Photo{Asset: domain.AssetCover},
		Caption:  StartCaption(o.selection.Catalog().Len(), domain.MaxPicks),
		Keyboard: keyboard,
	})
	o.reminders.Schedule(event.UserID, event.ChatID, session.LastActivity)
	return nil
}

func (o *Orchestrator) handlePage(ctx context.Context, event domain.Event) error {
	if event.Page < 0 {
		o.logger.Warn("ignoring negative page", "user_id", event.UserID, "page", event.Page)
		return nil
	}

	session, err := o.selection.Navigate(ctx, event.UserID, event.Page)
	if err != nil {
		return o.handleSelectionError(ctx, event, err)
	}

	keyboard, err := o.keyboard(session)
	if err != nil {
		return err
	}

	o.deliver(ctx, domain.Action{
		Kind:      domain.ActionEditMarkup,
		ChatID:    event.ChatID,
		MessageID: event.MessageID,
		Keyboard:  keyboard,
	})
	o.reminders.Schedule(event.UserID, event.ChatID, session.LastActivity)
	return nil
}

func (o *Orchestrator) handlePick(ctx context.Context, event domain.Event) error {
	session, result, err := o.selection.Pick(ctx, event.UserID, event.CandidateID)
	if err != nil {
		return o.handleSelectionError(ctx, event, err)
	}

	if !result.Complete {
		keyboard, err := o.keyboard(session)
		if err != nil {
			return err
		}

		names := o.selection.Catalog().Names(result.Picked)
		o.deliver(ctx, domain.Action{
			Kind:      domain.ActionEditCaption,
			ChatID:    event.ChatID,
			MessageID: event.MessageID,
			Caption:   ProgressCaption(names, session.Remaining()),
			Keyboard:  keyboard,
		})
		o.reminders.Schedule(event.UserID, event.ChatID, session.LastActivity)
		return nil
	}

	o.deliver(ctx, domain.Action{
		Kind:      domain.ActionEditMedia,
		ChatID:    event.ChatID,
		MessageID: event.MessageID,
		Photo:     &domain.Photo{Asset: domain.AssetProcessing},
		Caption:   ProcessingCaption,
	})

	job := RenderJob{
		ID:        session.RenderID,
		UserID:    event.UserID,
		ChatID:    event.ChatID,
		MessageID: event.MessageID,
		Picked:    result.Picked,
	}
	if err := o.renders.Submit(ctx, job); err != nil {
		o.logger.Error("submit render", "render_id", job.ID, "user_id", job.UserID, "error", err)
		o.DeliverRender(ctx, RenderResult{Job: job, Err: err})
	}
	return nil
}

// handleSelectionError maps expected selection failures to replies. Anything
// else is returned to the caller.
func (o *Orchestrator) handleSelectionError(ctx context.Context, event domain.Event, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotStarted):
		o.deliver(ctx, domain.Action{Kind: domain.ActionSendText, ChatID: event.ChatID, Text: HintText})
		return nil
	case errors.Is(err, domain.ErrSessionCompleted):
		o.logger.Debug("ignoring event on completed session", "user_id", event.UserID, "kind", event.Kind)
		return nil
	case errors.Is(err, domain.ErrUnknownCandidate), errors.Is(err, domain.ErrInvalidPage):
		o.logger.Warn("ignoring invalid selection", "user_id", event.UserID, "kind", event.Kind, "error", err)
		return nil
	default:
		return fmt.Errorf("%s event: %w", event.Kind, err)
	}
}

// DeliverRender publishes a finished render if the session still waits for
// it and ends the session either way. Stale results are dropped.
func (o *Orchestrator) DeliverRender(ctx context.Context, result RenderResult) {
	job := result.Job

	session, claimed, err := o.selection.ClaimRender(ctx, job.UserID, job.ID)
	switch {
	case err != nil:
		metrics.RendersTotal.WithLabelValues("failed").Inc()
		o.logger.Error("claim render", "render_id", job.ID, "user_id", job.UserID, "error", err)
		return
	case !claimed:
		metrics.RendersTotal.WithLabelValues("discarded").Inc()
		o.logger.Info("discarding stale render", "render_id", job.ID, "user_id", job.UserID)
		return
	case result.Err != nil:
		metrics.RendersTotal.WithLabelValues("failed").Inc()
		o.deliver(ctx, domain.Action{Kind: domain.ActionSendText, ChatID: job.ChatID, Text: RenderFailedText})
		return
	}

	o.deliver(ctx, domain.Action{
		Kind:      domain.ActionEditMedia,
		ChatID:    job.ChatID,
		MessageID: job.MessageID,
		Photo:     &domain.Photo{Data: result.Image, Filename: ResultFilename},
		Caption:   FinalCaption(o.selection.Catalog().Names(session.Picked)),
	})
	metrics.RendersTotal.WithLabelValues("delivered").Inc()
}

func (o *Orchestrator) keyboard(session domain.Session) (domain.Keyboard, error) {
	page, err := domain.ComputePage(o.selection.Catalog(), session.Picked, session.Page)
	if err != nil {
		return nil, fmt.Errorf("compute page: %w", err)
	}
	return domain.BuildKeyboard(page), nil
}

func (o *Orchestrator) deliver(ctx context.Context, action domain.Action) {
	if err := o.messenger.Deliver(ctx, action); err != nil {
		metrics.DeliveryFailuresTotal.WithLabelValues(string(action.Kind)).Inc()
		o.logger.Warn("delivery failed", "action", action.Kind, "chat_id", action.ChatID, "error", err)
	}
}
