package ports

import (
	"context"
	"image"

	"github.com/bnema/yolka/internal/domain"
)

type AssetSource interface {
	Image(ctx context.Context, name string) (image.Image, error)
	Raw(ctx context.Context, name string) ([]byte, error)
}

type Composer interface {
	Render(ctx context.Context, picked []domain.CandidateID) ([]byte, error)
}
