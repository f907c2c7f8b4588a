// Package store holds the persisted form of a selection session shared by the
// redis and sqlite session stores.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/yolka/internal/domain"
)

type record struct {
	UserID       int64    `json:"user_id"`
	State        string   `json:"state"`
	Picked       []string `json:"picked"`
	Page         int      `json:"page"`
	LastActivity string   `json:"last_activity,omitempty"`
	RenderID     string   `json:"render_id,omitempty"`
}

func Encode(session domain.Session) ([]byte, error) {
	rec := record{
		UserID:   int64(session.UserID),
		State:    string(session.State),
		Picked:   make([]string, 0, len(session.Picked)),
		Page:     session.Page,
		RenderID: session.RenderID,
	}
	for _, id := range session.Picked {
		rec.Picked = append(rec.Picked, string(id))
	}
	if !session.LastActivity.IsZero() {
		rec.LastActivity = session.LastActivity.UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session %d: %w", session.UserID, err)
	}
	return data, nil
}

func Decode(data []byte) (domain.Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}

	state := domain.SessionState(rec.State)
	switch state {
	case domain.StateIdle, domain.StateSelecting, domain.StateCompleted:
	default:
		return domain.Session{}, fmt.Errorf("decode session %d: unknown state %q", rec.UserID, rec.State)
	}

	session := domain.Session{
		UserID:   domain.UserID(rec.UserID),
		State:    state,
		Picked:   make([]domain.CandidateID, 0, len(rec.Picked)),
		Page:     rec.Page,
		RenderID: rec.RenderID,
	}
	for _, id := range rec.Picked {
		session.Picked = append(session.Picked, domain.CandidateID(id))
	}
	if rec.LastActivity != "" {
		ts, err := time.Parse(time.RFC3339Nano, rec.LastActivity)
		if err != nil {
			return domain.Session{}, fmt.Errorf("decode session %d: last_activity: %w", rec.UserID, err)
		}
		session.LastActivity = ts
	}

	return session, nil
}
