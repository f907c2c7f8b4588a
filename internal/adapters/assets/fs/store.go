package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports"
)

// Store serves image assets from a directory. Names are file names relative
// to the root; paths escaping the root are rejected.
type Store struct {
	root string
}

var _ ports.AssetSource = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Raw(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathForName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("asset %q: %w", name, domain.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}

	return data, nil
}

func (s *Store) Image(ctx context.Context, name string) (image.Image, error) {
	data, err := s.Raw(ctx, name)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode asset %q: %w", name, err)
	}

	return img, nil
}

func (s *Store) pathForName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("asset name is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid asset name %q", name)
	}

	return filepath.Join(s.root, cleaned), nil
}
