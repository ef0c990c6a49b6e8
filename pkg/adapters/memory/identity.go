// Package memory provides in-memory adapter implementations, used for tests
// and for hosts that keep session identity in their own page state.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/formflow/pkg/domain"
)

// IdentityStore implements ports.IdentityStore in memory.
// Safe for concurrent use.
type IdentityStore struct {
	mu  sync.RWMutex
	id  string
	set bool
}

// NewIdentityStore creates a new in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{}
}

// Get returns the stored submission ID.
func (s *IdentityStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", domain.ErrIdentityNotFound
	}
	return s.id, nil
}

// Set stores the submission ID, replacing any previous identity.
func (s *IdentityStore) Set(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = submissionID
	s.set = true
	return nil
}

// Clear removes the identity.
func (s *IdentityStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.set = false
	return nil
}
