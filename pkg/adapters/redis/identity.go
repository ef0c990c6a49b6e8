// Package redis provides a Redis-backed identity store, for server-rendered
// hosts that keep the browser-session state out of process.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/formflow/pkg/domain"
)

const defaultPrefix = "formflow:identity:"

// IdentityStore implements ports.IdentityStore using Redis. Each browser
// session gets its own store instance, keyed by the session key.
type IdentityStore struct {
	client     *backend.Client
	prefix     string
	sessionKey string
	ttl        time.Duration
}

// Option configures the IdentityStore.
type Option func(*IdentityStore)

// WithTTL sets the expiration for the persisted identity.
func WithTTL(ttl time.Duration) Option {
	return func(s *IdentityStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *IdentityStore) {
		s.prefix = prefix
	}
}

// NewIdentityStore creates a Redis identity store scoped to one browser
// session.
func NewIdentityStore(client *backend.Client, sessionKey string, opts ...Option) *IdentityStore {
	s := &IdentityStore{
		client:     client,
		prefix:     defaultPrefix,
		sessionKey: sessionKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *IdentityStore) key() string {
	return s.prefix + s.sessionKey
}

// Get returns the stored submission ID.
func (s *IdentityStore) Get(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, backend.Nil) {
		return "", domain.ErrIdentityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis error reading identity: %w", err)
	}
	return id, nil
}

// Set stores the submission ID, replacing any previous identity.
func (s *IdentityStore) Set(ctx context.Context, submissionID string) error {
	if err := s.client.Set(ctx, s.key(), submissionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis error writing identity: %w", err)
	}
	return nil
}

// Clear removes the identity. Deleting an absent key is a no-op in Redis,
// which matches the contract.
func (s *IdentityStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("redis error clearing identity: %w", err)
	}
	return nil
}
