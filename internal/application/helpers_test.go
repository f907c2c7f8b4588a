package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/yolka/internal/adapters/store/memory"
	"github.com/bnema/yolka/internal/domain"
)

var baseTime = time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T, n int) domain.Catalog {
	t.Helper()

	candidates := make([]domain.Candidate, 0, n)
	for i := 1; i <= n; i++ {
		candidates = append(candidates, domain.Candidate{
			ID:   candidateID(i),
			Name: fmt.Sprintf("Name %02d", i),
		})
	}

	catalog, err := domain.NewCatalog(candidates)
	require.NoError(t, err)
	return catalog
}

func candidateID(i int) domain.CandidateID {
	return domain.CandidateID(fmt.Sprintf("k%02d", i))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: baseTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type scheduledTask struct {
	delay time.Duration
	task  func(ctx context.Context)
}

// fakeScheduler keeps tasks until the test fires them.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []scheduledTask
}

func (s *fakeScheduler) After(delay time.Duration, task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, scheduledTask{delay: delay, task: task})
}

func (s *fakeScheduler) Pending() []scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledTask(nil), s.tasks...)
}

func (s *fakeScheduler) FireAll(ctx context.Context) {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.task(ctx)
	}
}

type recordingMessenger struct {
	mu      sync.Mutex
	actions []domain.Action
	err     error
}

func (m *recordingMessenger) Deliver(_ context.Context, action domain.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	return m.err
}

func (m *recordingMessenger) Actions() []domain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Action(nil), m.actions...)
}

func (m *recordingMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = nil
}

func (m *recordingMessenger) OfKind(kind domain.ActionKind) []domain.Action {
	var out []domain.Action
	for _, a := range m.Actions() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// blockingMessenger holds every delivery until release is closed.
type blockingMessenger struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingMessenger() *blockingMessenger {
	return &blockingMessenger{entered: make(chan struct{}), release: make(chan struct{})}
}

func (m *blockingMessenger) Deliver(ctx context.Context, _ domain.Action) error {
	m.once.Do(func() { close(m.entered) })
	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pickWithin fails the test when a pick for userID does not return in time.
func pickWithin(t *testing.T, selection *SelectionService, userID domain.UserID, id domain.CandidateID, wait time.Duration) {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		_, _, err := selection.Pick(context.Background(), userID, id)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(wait):
		t.Fatalf("pick for user %d blocked for %s", userID, wait)
	}
}

func waitEntered(t *testing.T, m *blockingMessenger) {
	t.Helper()
	select {
	case <-m.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never started")
	}
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []RenderJob
	err  error
}

func (q *recordingQueue) Submit(_ context.Context, job RenderJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Jobs() []RenderJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]RenderJob(nil), q.jobs...)
}

type harness struct {
	clock     *fakeClock
	store     *memory.Store
	scheduler *fakeScheduler
	messenger *recordingMessenger
	queue     *recordingQueue
	selection *SelectionService
	reminders *ReminderService
	orch      *Orchestrator
}

func newHarness(t *testing.T, catalogSize int) *harness {
	t.Helper()

	h := &harness{
		clock:     newFakeClock(),
		store:     memory.NewStore(),
		scheduler: &fakeScheduler{},
		messenger: &recordingMessenger{},
		queue:     &recordingQueue{},
	}

	var renders int
	h.selection = NewSelectionService(h.store, testCatalog(t, catalogSize), h.clock, nil).
		WithRenderIDs(func() string {
			renders++
			return fmt.Sprintf("render-%d", renders)
		})
	h.reminders = NewReminderService(h.selection, h.scheduler, h.messenger, nil)
	h.orch = NewOrchestrator(h.selection, h.reminders, h.queue, h.messenger, nil)
	return h
}

func (h *harness) handle(t *testing.T, event domain.Event) {
	t.Helper()
	if event.UserID == 0 {
		event.UserID = 1
	}
	if event.ChatID == 0 {
		event.ChatID = 100
	}
	if event.MessageID == 0 {
		event.MessageID = 55
	}
	require.NoError(t, h.orch.Handle(context.Background(), event))
}

func (h *harness) pick(t *testing.T, i int) {
	t.Helper()
	h.handle(t, domain.Event{Kind: domain.EventPick, CandidateID: candidateID(i)})
}

func mockAnyContext() interface{} {
	return mock.Anything
}
