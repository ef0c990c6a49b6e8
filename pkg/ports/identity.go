package ports

import "context"

// IdentityStore persists the session identity: the single submission ID that
// survives page reloads. Exactly one identity is active per browser session.
//
// The session manager is the only writer; everything else reads through it.
type IdentityStore interface {
	// Get returns the persisted submission ID.
	// Returns domain.ErrIdentityNotFound when no identity is stored.
	Get(ctx context.Context) (string, error)

	// Set stores the submission ID, replacing any previous identity.
	Set(ctx context.Context, submissionID string) error

	// Clear removes the identity. Clearing an absent identity is a no-op.
	Clear(ctx context.Context) error
}
