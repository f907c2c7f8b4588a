package application

import (
	"sync"

	"github.com/bnema/yolka/internal/domain"
)

const lockStripes = 64

// sessionLocks serialises work on one user's session. Users share a bounded
// set of stripes, so unrelated users may occasionally wait on each other.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lockFor(userID domain.UserID) *sync.Mutex {
	idx := uint64(userID) % lockStripes
	return &l.stripes[idx]
}
