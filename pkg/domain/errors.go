package domain

import (
	"errors"
	"fmt"
)

// ErrFormNotFound is returned when a form ID cannot be found on the backend.
var ErrFormNotFound = errors.New("form not found")

// ErrSubmissionNotFound is returned when a submission ID cannot be found,
// typically because the server-side session expired.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrIdentityNotFound is returned when no session identity is persisted.
var ErrIdentityNotFound = errors.New("session identity not found")

// ErrUnknownTransition is returned when the evaluator receives a transition
// value outside the closed set. This is a programming error.
var ErrUnknownTransition = errors.New("unknown lifecycle transition")

// ErrInvalidTransition is returned when a recognized transition is dispatched
// from a phase it is not valid in.
var ErrInvalidTransition = errors.New("transition not valid in current phase")

// InvalidStepIndexError signals an out-of-bounds step index. This is a
// contract violation between components, not a user-facing condition.
type InvalidStepIndexError struct {
	Index int
	Total int
}

func (e *InvalidStepIndexError) Error() string {
	return fmt.Sprintf("step index %d out of bounds for %d steps", e.Index, e.Total)
}
