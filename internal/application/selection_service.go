package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/yolka/internal/domain"
	applog "github.com/bnema/yolka/internal/log"
	"github.com/bnema/yolka/internal/metrics"
	"github.com/bnema/yolka/internal/ports"
)

type SelectionService struct {
	store       ports.SessionStore
	catalog     domain.Catalog
	clock       ports.Clock
	logger      *slog.Logger
	newRenderID func() string
	locks       sessionLocks
}

func NewSelectionService(store ports.SessionStore, catalog domain.Catalog, clock ports.Clock, logger *slog.Logger) *SelectionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SelectionService{
		store:       store,
		catalog:     catalog,
		clock:       clock,
		logger:      applog.OrDiscard(logger),
		newRenderID: uuid.NewString,
	}
}

// WithRenderIDs replaces the render id generator.
func (s *SelectionService) WithRenderIDs(next func() string) *SelectionService {
	if next != nil {
		s.newRenderID = next
	}
	return s
}

func (s *SelectionService) Catalog() domain.Catalog {
	return s.catalog
}

// Start replaces whatever the user had with a fresh selecting session. A
// render still pending for the old session will be discarded on delivery.
func (s *SelectionService) Start(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	session := domain.NewSession(userID, s.clock.Now())
	if err := s.store.Put(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug("session started", "user_id", userID)
	return session, nil
}

func (s *SelectionService) Pick(ctx context.Context, userID domain.UserID, id domain.CandidateID) (domain.Session, domain.SelectionResult, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, userID)
	if err != nil {
		return domain.Session{}, domain.SelectionResult{}, err
	}

	result, err := session.Pick(s.catalog, id, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCandidate) {
			metrics.PicksTotal.WithLabelValues("unknown").Inc()
		}
		return session, domain.SelectionResult{}, err
	}
	if result.Complete {
		session.RenderID = s.newRenderID()
	}

	if err := s.store.Put(ctx, session); err != nil {
		return domain.Session{}, domain.SelectionResult{}, fmt.Errorf("save session: %w", err)
	}

	switch {
	case result.Complete:
		metrics.PicksTotal.WithLabelValues("completed").Inc()
	case result.Duplicate:
		metrics.PicksTotal.WithLabelValues("duplicate").Inc()
	default:
		metrics.PicksTotal.WithLabelValues("accepted").Inc()
	}

	return session, result, nil
}

func (s *SelectionService) Navigate(ctx context.Context, userID domain.UserID, page int) (domain.Session, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, userID)
	if err != nil {
		return domain.Session{}, err
	}

	if err := session.Navigate(s.catalog, page, s.clock.Now()); err != nil {
		return session, err
	}

	if err := s.store.Put(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Get returns the user's session; users without one get an idle session.
func (s *SelectionService) Get(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	return s.load(ctx, userID)
}

func (s *SelectionService) Finish(ctx context.Context, userID domain.UserID) error {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ClaimRender finishes a completed session that is still waiting for
// renderID and returns it as it was. It reports false when the result is
// stale. Callers deliver the result after the claim, outside the user's lock.
func (s *SelectionService) ClaimRender(ctx context.Context, userID domain.UserID, renderID string) (domain.Session, bool, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, userID)
	if err != nil {
		return domain.Session{}, false, err
	}
	if session.State != domain.StateCompleted || renderID == "" || session.RenderID != renderID {
		return domain.Session{}, false, nil
	}

	if err := s.store.Clear(ctx, userID); err != nil {
		return domain.Session{}, false, fmt.Errorf("clear session: %w", err)
	}
	return session.Clone(), true, nil
}

// IsCurrent reports whether activity is still the latest activity of a
// selecting session.
func (s *SelectionService) IsCurrent(ctx context.Context, userID domain.UserID, activity time.Time) (bool, error) {
	mu := s.locks.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return session.IsCurrentActivity(activity), nil
}

func (s *SelectionService) load(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	session, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Session{UserID: userID, State: domain.StateIdle, Picked: []domain.CandidateID{}}, nil
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if session.Picked == nil {
		session.Picked = []domain.CandidateID{}
	}
	return session, nil
}
