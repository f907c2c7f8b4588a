package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/bnema/yolka/internal/adapters/store"
	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports"
)

// Store persists sessions in a single SQLite table keyed by user id.
type Store struct {
	db *sql.DB
}

var _ ports.SessionStore = (*Store)(nil)

// Open opens (or creates) the database at path using the pure Go driver.
// ":memory:" is accepted for throwaway stores.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	s, err := NewStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			user_id INTEGER PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	)
	if err != nil {
		return fmt.Errorf("init sqlite schema: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID domain.UserID) (domain.Session, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE user_id = ?`, int64(userID),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("sqlite get session %d: %w", userID, err)
	}
	return store.Decode(payload)
}

func (s *Store) Put(ctx context.Context, session domain.Session) error {
	payload, err := store.Encode(session)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		int64(session.UserID), payload,
	)
	if err != nil {
		return fmt.Errorf("sqlite put session %d: %w", session.UserID, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, userID domain.UserID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, int64(userID)); err != nil {
		return fmt.Errorf("sqlite clear session %d: %w", userID, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
