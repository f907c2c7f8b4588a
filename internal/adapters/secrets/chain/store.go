package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	filestore "github.com/bnema/yolka/internal/adapters/secrets/file"
	passstore "github.com/bnema/yolka/internal/adapters/secrets/pass"
	"github.com/bnema/yolka/internal/ports"
)

const (
	SchemePass = "pass"
	SchemeFile = "file"
)

// Resolver turns a secret reference into its value. A reference is either
// "<scheme>:<key>", which reads from exactly that source, or a bare key,
// which tries the primary source and falls back to the secondary one.
type Resolver struct {
	primary  ports.SecretSource
	fallback ports.SecretSource
	schemes  map[string]ports.SecretSource
}

var (
	errNilPrimarySource  = errors.New("primary secret source is nil")
	errNilFallbackSource = errors.New("fallback secret source is nil")
)

func NewResolver(primary ports.SecretSource, fallback ports.SecretSource) (*Resolver, error) {
	if primary == nil {
		return nil, errNilPrimarySource
	}
	if fallback == nil {
		return nil, errNilFallbackSource
	}

	return &Resolver{
		primary:  primary,
		fallback: fallback,
		schemes:  map[string]ports.SecretSource{},
	}, nil
}

// NewPassFirstWithFileFallback resolves bare keys through pass, then files
// under fileRoot, and registers the pass: and file: schemes.
func NewPassFirstWithFileFallback(fileRoot string) (*Resolver, error) {
	pass := passstore.NewStore()
	file := filestore.NewStore(fileRoot)

	r, err := NewResolver(pass, file)
	if err != nil {
		return nil, err
	}
	r.schemes[SchemePass] = pass
	r.schemes[SchemeFile] = file
	return r, nil
}

// WithScheme registers source under scheme, replacing any previous one.
func (r *Resolver) WithScheme(scheme string, source ports.SecretSource) *Resolver {
	r.schemes[scheme] = source
	return r
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("secret reference is empty")
	}

	if scheme, key, ok := strings.Cut(ref, ":"); ok {
		source, known := r.schemes[scheme]
		if !known {
			return "", fmt.Errorf("unknown secret scheme %q in %q", scheme, ref)
		}
		return source.Get(ctx, key)
	}

	return r.Get(ctx, ref)
}

func (r *Resolver) Get(ctx context.Context, key string) (string, error) {
	value, err := r.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := r.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary source get failed: %w; fallback source get failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
