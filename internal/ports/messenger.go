package ports

import (
	"context"

	"github.com/bnema/yolka/internal/domain"
)

type Messenger interface {
	Deliver(ctx context.Context, action domain.Action) error
}
