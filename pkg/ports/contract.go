package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/pkg/domain"
)

// RunIdentityStoreContract runs a suite of tests to verify that an
// IdentityStore implementation adheres to the defined interface contract.
func RunIdentityStoreContract(t *testing.T, store IdentityStore) {
	ctx := context.Background()

	t.Run("Get without identity", func(t *testing.T) {
		_, err := store.Get(ctx)
		assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, "submission-123")
		require.NoError(t, err, "Set should not return error")

		id, err := store.Get(ctx)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "submission-123", id)
	})

	t.Run("Set replaces previous identity", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "submission-123"))
		require.NoError(t, store.Set(ctx, "submission-456"))

		id, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "submission-456", id, "at most one identity is active")
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "submission-789"))
		require.NoError(t, store.Clear(ctx))

		_, err := store.Get(ctx)
		assert.ErrorIs(t, err, domain.ErrIdentityNotFound, "Get after Clear should report no identity")
	})

	t.Run("Clear is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		assert.NoError(t, store.Clear(ctx), "clearing an absent identity is a no-op")
	})
}
