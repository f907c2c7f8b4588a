package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
)

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Poller long-polls getUpdates and hands every decoded event to the handler
// on its own goroutine. Callback queries are answered before dispatch.
type Poller struct {
	client  *Client
	decoder *Decoder
	handler Handler
	logger  *slog.Logger

	wg sync.WaitGroup
}

func NewPoller(client *Client, decoder *Decoder, handler Handler, logger *slog.Logger) *Poller {
	return &Poller{client: client, decoder: decoder, handler: handler, logger: applog.OrDiscard(logger)}
}

// Run polls until ctx is cancelled, then waits for in-flight handlers.
func (p *Poller) Run(ctx context.Context) error {
	defer p.wg.Wait()

	var offset int64
	backoff := minBackoff
	for {
		updates, err := p.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn("get updates failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, update Update) {
	if q := update.CallbackQuery; q != nil {
		if err := p.client.AnswerCallbackQuery(ctx, q.ID); err != nil {
			p.logger.Debug("answer callback query failed", "error", err)
		}
	}

	event, ok := p.decoder.Decode(update)
	if !ok {
		p.logger.Debug("ignoring update", "update_id", update.UpdateID)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.handler.Handle(ctx, event); err != nil {
			p.logger.Error("handle event", "kind", event.Kind, "user_id", event.UserID, "error", err)
		}
	}()
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
