// Package registry resolves bibliographic identifiers against public
// metadata registries.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/alberto/anybib/internal/reference"
)

// ErrNotFound reports that no registry knows the identifier.
var ErrNotFound = errors.New("identifier not found")

// APIError carries a registry HTTP failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err means the identifier is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Resolver turns an identifier into a bibliographic record.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*reference.Record, error)
}

// Multi tries resolvers in order, falling through on ErrNotFound.
type Multi []Resolver

func (m Multi) Resolve(ctx context.Context, identifier string) (*reference.Record, error) {
	for _, r := range m {
		rec, err := r.Resolve(ctx, identifier)
		if err == nil {
			return rec, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
