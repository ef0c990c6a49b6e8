package domain

// Transition is a lifecycle input consumed by the state evaluator.
// The set of implementations is closed: the evaluator rejects values it does
// not recognize instead of ignoring them, since silent state corruption is
// worse than a loud failure.
type Transition interface {
	transition()
}

// SubmissionLoaded sets the working submission. Valid from PhaseNoSubmission
// and PhaseInProgress (re-loading after a logic check is a no-op phase-wise).
type SubmissionLoaded struct {
	Submission *Submission
}

// Submitted snapshots the working submission and records the status poll URL.
// Valid only from PhaseInProgress.
type Submitted struct {
	Submission          *Submission
	ProcessingStatusURL string
}

// ProcessingFailed restores the working submission from the submitted
// snapshot so the user can retry, and records a displayable message.
// Valid only from PhaseSubmitted.
type ProcessingFailed struct {
	Message string
}

// ProcessingSucceeded marks the lifecycle as completed.
// Valid only from PhaseSubmitted.
type ProcessingSucceeded struct{}

// ClearProcessingError clears any recorded processing error. Idempotent and
// valid from any phase.
type ClearProcessingError struct{}

// DestroySubmission discards all submission data and returns to
// PhaseNoSubmission. Valid from any phase.
type DestroySubmission struct{}

// Reset replaces the whole state with the given initial value. Valid from
// any phase.
type Reset struct {
	Initial State
}

// StartingError records a fatal boot error for the host boundary.
type StartingError struct {
	Err error
}

func (SubmissionLoaded) transition()     {}
func (Submitted) transition()            {}
func (ProcessingFailed) transition()     {}
func (ProcessingSucceeded) transition()  {}
func (ClearProcessingError) transition() {}
func (DestroySubmission) transition()    {}
func (Reset) transition()                {}
func (StartingError) transition()        {}
