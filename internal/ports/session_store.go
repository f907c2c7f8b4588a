package ports

import (
	"context"

	"github.com/bnema/yolka/internal/domain"
)

// SessionStore keeps one session per user. Get returns
// domain.ErrSessionNotFound when nothing is stored for the user.
type SessionStore interface {
	Get(ctx context.Context, userID domain.UserID) (domain.Session, error)
	Put(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context, userID domain.UserID) error
}
