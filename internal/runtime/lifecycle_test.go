package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/internal/runtime"
	"github.com/aretw0/formflow/pkg/domain"
)

// unknownTransition trips the closed-set check in the evaluator.
type unknownTransition struct{ domain.ClearProcessingError }

func TestReduce_SubmissionLoaded(t *testing.T) {
	sub := &domain.Submission{ID: "sub-1"}

	state, err := runtime.Reduce(domain.NewState(), domain.SubmissionLoaded{Submission: sub})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInProgress, state.Phase)
	assert.Same(t, sub, state.Submission)

	// Re-loading after a logic check is allowed from InProgress.
	updated := &domain.Submission{ID: "sub-1", CanSubmit: true}
	state, err = runtime.Reduce(state, domain.SubmissionLoaded{Submission: updated})
	require.NoError(t, err)
	assert.Same(t, updated, state.Submission)
}

func TestReduce_SubmissionLoaded_InvalidFromSubmitted(t *testing.T) {
	state := domain.State{Phase: domain.PhaseSubmitted}

	_, err := runtime.Reduce(state, domain.SubmissionLoaded{Submission: &domain.Submission{}})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReduce_Submitted(t *testing.T) {
	sub := &domain.Submission{ID: "sub-1"}
	state := domain.State{
		Phase:           domain.PhaseInProgress,
		Submission:      sub,
		ProcessingError: "leftover",
	}

	next, err := runtime.Reduce(state, domain.Submitted{
		Submission:          sub,
		ProcessingStatusURL: "https://backend.example/status",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSubmitted, next.Phase)
	assert.Nil(t, next.Submission, "working submission is cleared")
	assert.Same(t, sub, next.SubmittedSubmission)
	assert.Equal(t, "https://backend.example/status", next.ProcessingStatusURL)
	assert.Empty(t, next.ProcessingError, "submit starts from a clean slate")
}

func TestReduce_Submitted_OnlyFromInProgress(t *testing.T) {
	for _, phase := range []domain.Phase{domain.PhaseNoSubmission, domain.PhaseSubmitted, domain.PhaseCompleted} {
		_, err := runtime.Reduce(domain.State{Phase: phase}, domain.Submitted{})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "from %s", phase)
	}
}

func TestReduce_ProcessingFailed_RestoresSnapshot(t *testing.T) {
	sub := &domain.Submission{
		ID:        "sub-1",
		CanSubmit: true,
		Steps: []domain.SubmissionStep{
			{Step: domain.Step{Slug: "a"}, IsApplicable: true, Completed: true},
		},
		Payment: domain.Payment{IsRequired: true, Amount: "10.00"},
	}
	state := domain.State{
		Phase:               domain.PhaseSubmitted,
		SubmittedSubmission: sub,
		ProcessingStatusURL: "https://backend.example/status",
	}

	next, err := runtime.Reduce(state, domain.ProcessingFailed{Message: "backend rejected the submission"})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInProgress, next.Phase, "retry-capable again")
	assert.Same(t, sub, next.Submission, "snapshot restored exactly, no field drift")
	assert.Equal(t, "backend rejected the submission", next.ProcessingError)
}

func TestReduce_ProcessingSucceeded(t *testing.T) {
	state := domain.State{
		Phase:               domain.PhaseSubmitted,
		SubmittedSubmission: &domain.Submission{ID: "sub-1"},
		ProcessingError:     "transient",
	}

	next, err := runtime.Reduce(state, domain.ProcessingSucceeded{})
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompleted, next.Phase)
	assert.Empty(t, next.ProcessingError)
}

func TestReduce_ProcessingTransitions_OnlyFromSubmitted(t *testing.T) {
	state := domain.State{Phase: domain.PhaseInProgress}

	_, err := runtime.Reduce(state, domain.ProcessingFailed{Message: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = runtime.Reduce(state, domain.ProcessingSucceeded{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReduce_ClearProcessingError_Idempotent(t *testing.T) {
	state := domain.State{Phase: domain.PhaseInProgress, ProcessingError: "boom"}

	next, err := runtime.Reduce(state, domain.ClearProcessingError{})
	require.NoError(t, err)
	assert.Empty(t, next.ProcessingError)
	assert.Equal(t, domain.PhaseInProgress, next.Phase, "submission state unchanged")

	again, err := runtime.Reduce(next, domain.ClearProcessingError{})
	require.NoError(t, err)
	assert.Equal(t, next, again)
}

func TestReduce_DestroyAndReset_FromAnyPhase(t *testing.T) {
	for _, phase := range []domain.Phase{
		domain.PhaseNoSubmission,
		domain.PhaseInProgress,
		domain.PhaseSubmitted,
		domain.PhaseCompleted,
	} {
		state := domain.State{
			Phase:               phase,
			Submission:          &domain.Submission{ID: "sub-1"},
			SubmittedSubmission: &domain.Submission{ID: "sub-1"},
			ProcessingError:     "boom",
		}

		next, err := runtime.Reduce(state, domain.DestroySubmission{})
		require.NoError(t, err)
		assert.Equal(t, domain.NewState(), next, "destroy from %s", phase)

		initial := domain.NewState()
		next, err = runtime.Reduce(state, domain.Reset{Initial: initial})
		require.NoError(t, err)
		assert.Equal(t, initial, next, "reset from %s", phase)
	}
}

func TestReduce_StartingError(t *testing.T) {
	boot := errors.New("form fetch failed")

	state, err := runtime.Reduce(domain.NewState(), domain.StartingError{Err: boot})
	require.NoError(t, err)
	assert.Same(t, boot, state.StartingError)
	assert.Equal(t, domain.PhaseNoSubmission, state.Phase)
}

func TestReduce_UnknownTransition(t *testing.T) {
	_, err := runtime.Reduce(domain.NewState(), unknownTransition{})
	assert.ErrorIs(t, err, domain.ErrUnknownTransition, "unknown transitions fail loudly")
}

func TestStore_Dispatch(t *testing.T) {
	var events []string
	store := runtime.NewStore(runtime.WithStoreHooks(domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			events = append(events, e.Name+":"+string(e.To))
		},
	}))
	ctx := context.Background()

	require.NoError(t, store.Dispatch(ctx, domain.SubmissionLoaded{Submission: &domain.Submission{ID: "sub-1"}}))
	require.NoError(t, store.Dispatch(ctx, domain.Submitted{
		Submission:          store.State().Submission,
		ProcessingStatusURL: "https://backend.example/status",
	}))

	assert.Equal(t, domain.PhaseSubmitted, store.State().Phase)
	assert.Equal(t, []string{
		"submission_loaded:in_progress",
		"submitted:submitted",
	}, events)
}

func TestStore_Dispatch_RejectionLeavesStateUntouched(t *testing.T) {
	store := runtime.NewStore()
	ctx := context.Background()

	err := store.Dispatch(ctx, domain.ProcessingSucceeded{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.NewState(), store.State())
}
