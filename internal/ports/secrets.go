package ports

import "context"

// SecretSource reads a secret value by key. Sources are read-only; secrets are
// provisioned out of band.
type SecretSource interface {
	Get(ctx context.Context, key string) (string, error)
}
