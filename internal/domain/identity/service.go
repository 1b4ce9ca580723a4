// internal/domain/identity/service.go

package identity

import (
	"context"
)

// Resolver supplies the current identity for relationship-mutating
// operations. The core never creates identities on its own; it asks the
// resolver, which may mint an anonymous one on demand.
type Resolver interface {
	// Current returns the current identity, or "" when no session exists
	Current(ctx context.Context) (string, error)

	// CreateAnonymous creates an anonymous identity and makes it current.
	// It may fail (e.g. offline); the triggering operation surfaces the
	// error and is not retried.
	CreateAnonymous(ctx context.Context) (string, error)
}

// Store persists identities
type Store interface {
	// CreateAnonymousUser inserts a new anonymous user row
	CreateAnonymousUser(ctx context.Context, id string) error
}
