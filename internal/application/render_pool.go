package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/metrics"
	"github.com/bnema/yolka/internal/ports"
)

const (
	DefaultRenderWorkers = 2
	DecorateDelay        = 3 * time.Second
)

var ErrRenderPoolStopped = errors.New("render pool stopped")

// RenderJob asks for one tree. ID is the session's render id and decides on
// delivery whether the result is still wanted.
type RenderJob struct {
	ID        string
	UserID    domain.UserID
	ChatID    int64
	MessageID int
	Picked    []domain.CandidateID
}

type RenderResult struct {
	Job   RenderJob
	Image []byte
	Err   error
}

type RenderQueue interface {
	Submit(ctx context.Context, job RenderJob) error
}

// RenderPool composes trees on a fixed number of workers and hands every
// result, failed or not, to the deliver callback.
type RenderPool struct {
	composer ports.Composer
	workers  int
	delay    time.Duration
	logger   *slog.Logger

	jobs chan RenderJob
	done chan struct{}
	mu   sync.RWMutex
	wg   sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   bool
}

var _ RenderQueue = (*RenderPool)(nil)

func NewRenderPool(composer ports.Composer, workers int, logger *slog.Logger) *RenderPool {
	if workers <= 0 {
		workers = DefaultRenderWorkers
	}

	return &RenderPool{
		composer: composer,
		workers:  workers,
		delay:    DecorateDelay,
		logger:   applog.OrDiscard(logger),
		jobs:     make(chan RenderJob, workers*16),
		done:     make(chan struct{}),
	}
}

// WithDecorateDelay sets the pause before each render; zero disables it.
func (p *RenderPool) WithDecorateDelay(delay time.Duration) *RenderPool {
	if delay < 0 {
		delay = 0
	}
	p.delay = delay
	return p
}

// Start launches the workers. Renders observe ctx: once it is cancelled,
// jobs still queued fail fast with ctx.Err(). Every job is still handed to
// deliver, on a context that is not cancelled with ctx, until Stop.
func (p *RenderPool) Start(ctx context.Context, deliver func(context.Context, RenderResult)) {
	p.startOnce.Do(func() {
		deliverCtx := context.WithoutCancel(ctx)
		for range p.workers {
			p.wg.Add(1)
			go p.work(ctx, deliverCtx, deliver)
		}
	})
}

func (p *RenderPool) Submit(ctx context.Context, job RenderJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrRenderPoolStopped
	}

	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrRenderPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new jobs and waits until every queued job is delivered.
func (p *RenderPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)

		p.mu.Lock()
		p.stopped = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

func (p *RenderPool) work(ctx, deliverCtx context.Context, deliver func(context.Context, RenderResult)) {
	defer p.wg.Done()

	for job := range p.jobs {
		deliver(deliverCtx, p.render(ctx, job))
	}
}

func (p *RenderPool) render(ctx context.Context, job RenderJob) RenderResult {
	if err := ctx.Err(); err != nil {
		return RenderResult{Job: job, Err: err}
	}
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return RenderResult{Job: job, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	metrics.RenderBusy.Inc()
	defer metrics.RenderBusy.Dec()

	started := time.Now()
	img, err := p.composer.Render(ctx, job.Picked)
	metrics.RenderDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		p.logger.Error("render failed", "render_id", job.ID, "user_id", job.UserID, "error", err)
		return RenderResult{Job: job, Err: err}
	}

	p.logger.Debug("render finished", "render_id", job.ID, "user_id", job.UserID, "bytes", len(img))
	return RenderResult{Job: job, Image: img}
}
