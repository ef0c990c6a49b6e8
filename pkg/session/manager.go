package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"log/slog"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// fetchEntry tracks one in-flight submission fetch shared by concurrent
// resume calls.
type fetchEntry struct {
	done chan struct{}
	sub  *domain.Submission
	err  error
}

// Manager owns the persisted session identity and recycles submissions
// across page reloads.
type Manager struct {
	identity ports.IdentityStore
	api      ports.FormAPI

	mu       sync.Mutex
	inflight map[string]*fetchEntry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session Manager backed by the given identity store
// and API.
func NewManager(identity ports.IdentityStore, api ports.FormAPI, opts ...Option) *Manager {
	m := &Manager{
		identity: identity,
		api:      api,
		inflight: make(map[string]*fetchEntry),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resume reconciles the persisted identity with the backend. It returns the
// resumed submission, or nil without error when no identity is persisted or
// the identity turned out to be stale (server-side expiry). A stale identity
// is cleared silently: it must never block the user from starting fresh.
func (m *Manager) Resume(ctx context.Context) (*domain.Submission, error) {
	id, err := m.identity.Get(ctx)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session identity: %w", err)
	}

	entry, leader := m.acquire(id)
	if !leader {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-entry.done:
			return entry.sub, entry.err
		}
	}

	entry.sub, entry.err = m.fetch(ctx, id)
	close(entry.done)

	m.mu.Lock()
	delete(m.inflight, id)
	m.mu.Unlock()

	return entry.sub, entry.err
}

// acquire returns the in-flight entry for the identity. leader is true for
// the caller that must perform the fetch.
func (m *Manager) acquire(id string) (*fetchEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, exists := m.inflight[id]; exists {
		return entry, false
	}
	entry := &fetchEntry{done: make(chan struct{})}
	m.inflight[id] = entry
	return entry, true
}

func (m *Manager) fetch(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := m.api.FetchSubmission(ctx, id)
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		m.logger.Debug("clearing stale session identity", "submission_id", id)
		if clearErr := m.identity.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("failed to clear stale identity: %w", clearErr)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resume submission %s: %w", id, err)
	}
	return sub, nil
}

// Remember persists the submission ID as the active session identity.
func (m *Manager) Remember(ctx context.Context, submissionID string) error {
	return m.identity.Set(ctx, submissionID)
}

// Forget clears the persisted identity.
func (m *Manager) Forget(ctx context.Context) error {
	return m.identity.Clear(ctx)
}
