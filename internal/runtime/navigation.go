package runtime

import (
	"github.com/aretw0/formflow/pkg/domain"
)

// NextApplicableStep returns the index of the first applicable step strictly
// after current, scanning in ascending order. ok is false when no applicable
// step remains; the caller interprets that as "go to the overview".
//
// current == -1 is valid and means "before the first step". A nil submission
// treats every step as applicable (pre-submission display). The result
// depends only on (current, sub.Steps): repeated calls are idempotent.
func NextApplicableStep(current int, sub *domain.Submission, total int) (int, bool, error) {
	if err := checkStepIndex(current, total); err != nil {
		return 0, false, err
	}

	if sub == nil {
		if next := current + 1; next < total {
			return next, true, nil
		}
		return 0, false, nil
	}

	for i := current + 1; i < total; i++ {
		status, known := sub.StepStatus(i)
		if !known || status.IsApplicable {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// PreviousApplicableStep is the descending counterpart of NextApplicableStep.
func PreviousApplicableStep(current int, sub *domain.Submission, total int) (int, bool, error) {
	if err := checkStepIndex(current, total); err != nil {
		return 0, false, err
	}

	if sub == nil {
		if prev := current - 1; prev >= 0 {
			return prev, true, nil
		}
		return 0, false, nil
	}

	for i := current - 1; i >= 0; i-- {
		status, known := sub.StepStatus(i)
		if !known || status.IsApplicable {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// checkStepIndex validates the scan origin. The range is [-1, total]: -1 sits
// before the first step, total sits past the last (the overview position).
// Anything else is a contract violation and fails loudly.
func checkStepIndex(current, total int) error {
	if current < -1 || current > total {
		return &domain.InvalidStepIndexError{Index: current, Total: total}
	}
	return nil
}
