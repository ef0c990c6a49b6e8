package domain

// Phase defines the coarse position of a submission in its lifecycle.
type Phase string

const (
	// PhaseNoSubmission means no working submission exists yet.
	PhaseNoSubmission Phase = "no_submission"
	// PhaseInProgress means a working submission exists and is editable.
	PhaseInProgress Phase = "in_progress"
	// PhaseSubmitted means the submission was handed to the backend and is
	// awaiting background processing.
	PhaseSubmitted Phase = "submitted"
	// PhaseCompleted means background processing finished successfully.
	PhaseCompleted Phase = "completed"
)

// State represents the current snapshot of the submission lifecycle.
// It is an immutable value: the evaluator returns a replacement rather than
// mutating in place.
type State struct {
	// Phase indicates where in the lifecycle the submission is.
	Phase Phase

	// Submission is the working submission, nil outside PhaseInProgress.
	Submission *Submission

	// SubmittedSubmission is the snapshot taken at submit time. It is used
	// to restore the working submission when background processing fails.
	SubmittedSubmission *Submission

	// ProcessingStatusURL is where the background processing status is polled.
	ProcessingStatusURL string

	// ProcessingError holds a displayable, recoverable error message.
	ProcessingError string

	// StartingError holds a fatal boot error (e.g. the form fetch failed).
	// It must be surfaced by the host boundary; the engine does not recover
	// from it.
	StartingError error
}

// NewState creates a clean lifecycle state with no submission.
func NewState() State {
	return State{Phase: PhaseNoSubmission}
}

// ActiveSubmission returns the working submission when present, falling back
// to the submitted snapshot. The progress indicator is derived from this.
func (s State) ActiveSubmission() *Submission {
	if s.Submission != nil {
		return s.Submission
	}
	return s.SubmittedSubmission
}

// Completed reports whether the lifecycle reached its terminal success state.
func (s State) Completed() bool {
	return s.Phase == PhaseCompleted
}
