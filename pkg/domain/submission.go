package domain

// Payment is the payment sub-record of a submission.
type Payment struct {
	IsRequired bool   `json:"isRequired"`
	Amount     string `json:"amount"`
	HasPaid    bool   `json:"hasPaid"`
}

// SubmissionStep records the server-computed status of one form step within
// a submission. The applicability flag is a read-only projection of the
// backend logic evaluation; it is recomputed by the resolver and never
// mutated in place.
type SubmissionStep struct {
	Step         Step `json:"formStep"`
	IsApplicable bool `json:"isApplicable"`
	Completed    bool `json:"completed"`
}

// Submission is an in-flight form submission. It is mutated only through
// lifecycle transitions, never directly.
type Submission struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	FormURL string `json:"form"`

	// Steps mirrors the order of the parent form's steps.
	Steps []SubmissionStep `json:"steps"`

	CanSubmit bool    `json:"canSubmit"`
	Payment   Payment `json:"payment"`

	// SubmissionAllowed, when non-empty, overrides the form-level value.
	SubmissionAllowed SubmissionAllowed `json:"submissionAllowed,omitempty"`
}

// EffectiveSubmissionAllowed returns the submission-level override when set,
// falling back to the form definition.
func (s *Submission) EffectiveSubmissionAllowed(form *Form) SubmissionAllowed {
	if s != nil && s.SubmissionAllowed != "" {
		return s.SubmissionAllowed
	}
	return form.SubmissionAllowed
}

// StepStatus returns the status record for the given step index.
// ok is false when the submission carries no record for that index.
func (s *Submission) StepStatus(index int) (SubmissionStep, bool) {
	if s == nil || index < 0 || index >= len(s.Steps) {
		return SubmissionStep{}, false
	}
	return s.Steps[index], true
}

// AllApplicableCompleted reports whether every applicable step is completed.
func (s *Submission) AllApplicableCompleted() bool {
	if s == nil {
		return false
	}
	for _, step := range s.Steps {
		if step.IsApplicable && !step.Completed {
			return false
		}
	}
	return true
}
