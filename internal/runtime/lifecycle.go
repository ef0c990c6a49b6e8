package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
)

// Reduce is the lifecycle evaluator: a pure total function from
// (state, transition) to the next state. It returns an error for transitions
// outside the closed set or dispatched from an invalid phase; those indicate
// a contract violation between components and must never be coerced into a
// default.
func Reduce(state domain.State, t domain.Transition) (domain.State, error) {
	switch t := t.(type) {
	case domain.SubmissionLoaded:
		if state.Phase != domain.PhaseNoSubmission && state.Phase != domain.PhaseInProgress {
			return state, invalidFrom(state.Phase, "SubmissionLoaded")
		}
		state.Submission = t.Submission
		state.Phase = domain.PhaseInProgress
		return state, nil

	case domain.Submitted:
		if state.Phase != domain.PhaseInProgress {
			return state, invalidFrom(state.Phase, "Submitted")
		}
		next := domain.NewState()
		next.Phase = domain.PhaseSubmitted
		next.SubmittedSubmission = t.Submission
		next.ProcessingStatusURL = t.ProcessingStatusURL
		return next, nil

	case domain.ProcessingFailed:
		if state.Phase != domain.PhaseSubmitted {
			return state, invalidFrom(state.Phase, "ProcessingFailed")
		}
		// Restore the snapshot so the user can edit and retry. Edits made
		// between submit and the failure notification are discarded.
		state.Submission = state.SubmittedSubmission
		state.ProcessingError = t.Message
		state.Phase = domain.PhaseInProgress
		return state, nil

	case domain.ProcessingSucceeded:
		if state.Phase != domain.PhaseSubmitted {
			return state, invalidFrom(state.Phase, "ProcessingSucceeded")
		}
		state.ProcessingError = ""
		state.Phase = domain.PhaseCompleted
		return state, nil

	case domain.ClearProcessingError:
		state.ProcessingError = ""
		return state, nil

	case domain.DestroySubmission:
		return domain.NewState(), nil

	case domain.Reset:
		return t.Initial, nil

	case domain.StartingError:
		state.StartingError = t.Err
		return state, nil

	default:
		return state, fmt.Errorf("%w: %T", domain.ErrUnknownTransition, t)
	}
}

func invalidFrom(phase domain.Phase, name string) error {
	return fmt.Errorf("%w: %s from %q", domain.ErrInvalidTransition, name, phase)
}

// TransitionName returns a stable name for hooks, logs and metrics.
func TransitionName(t domain.Transition) string {
	switch t.(type) {
	case domain.SubmissionLoaded:
		return "submission_loaded"
	case domain.Submitted:
		return "submitted"
	case domain.ProcessingFailed:
		return "processing_failed"
	case domain.ProcessingSucceeded:
		return "processing_succeeded"
	case domain.ClearProcessingError:
		return "clear_processing_error"
	case domain.DestroySubmission:
		return "destroy_submission"
	case domain.Reset:
		return "reset"
	case domain.StartingError:
		return "starting_error"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Store holds the lifecycle state and serializes dispatches. All transitions
// occur on one logical owner; the store only adds the lock needed because
// network callbacks land on arbitrary goroutines.
type Store struct {
	mu    sync.Mutex
	state domain.State

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithStoreLogger configures a logger for dispatched transitions.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithStoreHooks registers observability hooks.
func WithStoreHooks(hooks domain.LifecycleHooks) StoreOption {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// NewStore creates a lifecycle store starting at PhaseNoSubmission.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:  domain.NewState(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies a transition. The error path is the loud one: an invalid
// or unknown transition leaves the state untouched and is returned to the
// caller.
func (s *Store) Dispatch(ctx context.Context, t domain.Transition) error {
	s.mu.Lock()
	from := s.state.Phase
	next, err := Reduce(s.state, t)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("lifecycle transition rejected",
			"transition", TransitionName(t),
			"phase", from,
			"err", err,
		)
		return err
	}
	s.state = next
	to := next.Phase
	s.mu.Unlock()

	s.logger.Debug("lifecycle transition applied",
		"transition", TransitionName(t),
		"from", from,
		"to", to,
	)

	if s.hooks.OnTransition != nil {
		s.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition},
			Name:      TransitionName(t),
			From:      from,
			To:        to,
		})
	}
	return nil
}

// State returns the current lifecycle snapshot.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
