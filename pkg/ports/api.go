package ports

import (
	"context"

	"github.com/aretw0/formflow/pkg/domain"
)

// ProcessingStatus is the polled state of background processing.
type ProcessingStatus string

const (
	ProcessingPending ProcessingStatus = "pending"
	ProcessingDone    ProcessingStatus = "done"
)

// ProcessingResult is the terminal outcome reported once processing is done.
type ProcessingResult string

const (
	ResultSuccess ProcessingResult = "success"
	ResultFailed  ProcessingResult = "failed"
)

// StatusResponse is the payload of one status poll.
type StatusResponse struct {
	Status ProcessingStatus `json:"status"`
	Result ProcessingResult `json:"result,omitempty"`

	ErrorMessage      string `json:"errorMessage,omitempty"`
	PaymentURL        string `json:"paymentUrl,omitempty"`
	PublicReference   string `json:"publicReference,omitempty"`
	ReportDownloadURL string `json:"reportDownloadUrl,omitempty"`
}

// FormAPI defines the backend operations the engine consumes. Transport and
// wire format are owned by the adapter; the core only sees domain values.
type FormAPI interface {
	// FetchForm retrieves the form definition.
	// Returns domain.ErrFormNotFound if the form does not exist.
	FetchForm(ctx context.Context, formID string) (*domain.Form, error)

	// FetchSubmission retrieves an existing submission.
	// Returns domain.ErrSubmissionNotFound if it expired or never existed.
	FetchSubmission(ctx context.Context, submissionID string) (*domain.Submission, error)

	// CreateSubmission starts a new submission for the form.
	CreateSubmission(ctx context.Context, form *domain.Form) (*domain.Submission, error)

	// CompleteSubmission hands the submission over for background processing
	// and returns the URL to poll for its status.
	CompleteSubmission(ctx context.Context, submission *domain.Submission) (string, error)

	// PollStatus checks the background processing status once.
	PollStatus(ctx context.Context, statusURL string) (*StatusResponse, error)

	// DestroySession deletes the server-side session of the submission.
	DestroySession(ctx context.Context, submissionID string) error
}
