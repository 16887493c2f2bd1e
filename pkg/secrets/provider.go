package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Provider that does not hold the secret.
// The resolver moves on to the next provider.
var ErrNotFound = errors.New("secret not found")

// Provider looks up secrets by name.
type Provider interface {
	// GetSecret returns the secret value. A missing secret is reported as
	// an error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Name identifies the provider in errors and logs ("env", "file").
	Name() string
}
