package domain

import (
	"fmt"
	"slices"
	"time"
)

const MaxPicks = 7

type UserID int64

type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateSelecting SessionState = "selecting"
	StateCompleted SessionState = "completed"
)

type Session struct {
	UserID       UserID
	State        SessionState
	Picked       []CandidateID
	Page         int
	LastActivity time.Time
	// RenderID identifies the render a completed session is waiting for.
	RenderID string
}

type SelectionResult struct {
	Picked    []CandidateID
	Complete  bool
	Duplicate bool
}

func NewSession(userID UserID, now time.Time) Session {
	return Session{
		UserID:       userID,
		State:        StateSelecting,
		Picked:       []CandidateID{},
		LastActivity: now,
	}
}

func (s Session) Remaining() int {
	return MaxPicks - len(s.Picked)
}

func (s Session) Clone() Session {
	s.Picked = slices.Clone(s.Picked)
	if s.Picked == nil {
		s.Picked = []CandidateID{}
	}
	return s
}

func (s Session) checkSelecting() error {
	switch s.State {
	case StateSelecting:
		return nil
	case StateCompleted:
		return ErrSessionCompleted
	default:
		return ErrSessionNotStarted
	}
}

// Pick appends id to the picked list. Picking an id twice only refreshes the
// activity timestamp.
func (s *Session) Pick(catalog Catalog, id CandidateID, now time.Time) (SelectionResult, error) {
	if err := s.checkSelecting(); err != nil {
		return SelectionResult{}, err
	}
	if !catalog.Contains(id) {
		return SelectionResult{}, fmt.Errorf("%w: %q", ErrUnknownCandidate, id)
	}

	duplicate := slices.Contains(s.Picked, id)
	if !duplicate {
		s.Picked = append(s.Picked, id)
	}
	s.LastActivity = now
	s.Page = ClampPage(catalog, s.Picked, s.Page)

	complete := len(s.Picked) >= MaxPicks
	if complete {
		s.State = StateCompleted
	}

	return SelectionResult{
		Picked:    slices.Clone(s.Picked),
		Complete:  complete,
		Duplicate: duplicate,
	}, nil
}

func (s *Session) Navigate(catalog Catalog, target int, now time.Time) error {
	if err := s.checkSelecting(); err != nil {
		return err
	}
	if target < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, target)
	}

	s.Page = ClampPage(catalog, s.Picked, target)
	s.LastActivity = now
	return nil
}

func (s *Session) Finish() {
	*s = Session{UserID: s.UserID, State: StateIdle, Picked: []CandidateID{}}
}

// IsCurrentActivity reports whether a reminder scheduled for activity is
// still the latest one for this session.
func (s Session) IsCurrentActivity(activity time.Time) bool {
	return s.State == StateSelecting && s.LastActivity.Equal(activity)
}
