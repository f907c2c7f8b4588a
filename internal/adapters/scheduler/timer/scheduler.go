package timer

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/yolka/internal/ports"
)

// Scheduler runs tasks on runtime timers. Close stops every pending timer
// and cancels the context handed to tasks that are already running.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

var _ ports.Scheduler = (*Scheduler)(nil)

func New(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{ctx: ctx, cancel: cancel, timers: make(map[*time.Timer]struct{})}
}

func (s *Scheduler) After(delay time.Duration, task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()

		if s.ctx.Err() != nil {
			return
		}
		task(s.ctx)
	})
	s.timers[t] = struct{}{}
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	clear(s.timers)
	s.cancel()
}
