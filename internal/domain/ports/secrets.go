package ports

import "context"

// SecretManager fetches secret values by name from the configured backend.
type SecretManager interface {
	GetSecret(ctx context.Context, name string) (string, error)
}
