package ports

import (
	"context"
	"time"
)

// Scheduler runs task once after delay without blocking the caller. Tasks
// are never awaited.
type Scheduler interface {
	After(delay time.Duration, task func(ctx context.Context))
}
