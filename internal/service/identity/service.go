// internal/service/identity/service.go

package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"moves/internal/domain/identity"
)

// Service is a session-scoped identity resolver. It starts with whatever
// identity the session arrived with (possibly none) and mints an anonymous
// user on demand.
type Service struct {
	store identity.Store

	mu      sync.Mutex
	current string
}

// NewService creates a resolver for one session. userID may be empty for a
// not-yet-signed-in session.
func NewService(store identity.Store, userID string) *Service {
	return &Service{
		store:   store,
		current: userID,
	}
}

// Current returns the session's identity, or "" when none exists yet
func (s *Service) Current(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, nil
}

// CreateAnonymous mints an anonymous identity, persists it, and makes it
// the session's current identity
func (s *Service) CreateAnonymous(ctx context.Context) (string, error) {
	id := uuid.New().String()

	if err := s.store.CreateAnonymousUser(ctx, id); err != nil {
		return "", fmt.Errorf("create anonymous user: %w", err)
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return id, nil
}
