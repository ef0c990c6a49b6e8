package domain

// SubmissionAllowed restricts whether a form may be submitted, and whether
// the overview page is reachable at all.
type SubmissionAllowed string

const (
	// SubmissionAllowedYes permits normal submission.
	SubmissionAllowedYes SubmissionAllowed = "yes"
	// SubmissionAllowedNoWithOverview blocks submission but still shows the overview.
	SubmissionAllowedNoWithOverview SubmissionAllowed = "no_with_overview"
	// SubmissionAllowedNoWithoutOverview blocks submission and hides the overview.
	SubmissionAllowedNoWithoutOverview SubmissionAllowed = "no_without_overview"
)

// Form is the immutable form definition fetched from the backend.
// It is owned by the engine for the lifetime of one form session and
// replaced wholesale on language change.
type Form struct {
	ID   string `json:"uuid"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// Steps is the ordered sequence of form steps. It is never reordered
	// at runtime; applicability is tracked on the Submission instead.
	Steps []Step `json:"steps"`

	LoginRequired          bool              `json:"loginRequired"`
	PaymentRequired        bool              `json:"paymentRequired"`
	ShowProgressIndicator  bool              `json:"showProgressIndicator"`
	HideNonApplicableSteps bool              `json:"hideNonApplicableSteps"`
	SubmissionAllowed      SubmissionAllowed `json:"submissionAllowed"`

	// IntroductionPageContent, when non-empty, enables the introduction
	// pseudo-step before the start page.
	IntroductionPageContent string `json:"introductionPageContent,omitempty"`

	// SubmissionReportDownloadLinkTitle is the label for the PDF report
	// link on the confirmation view.
	SubmissionReportDownloadLinkTitle string `json:"submissionReportDownloadLinkTitle,omitempty"`
}

// Step is one dynamic step of a form.
type Step struct {
	ID   string `json:"uuid"`
	URL  string `json:"url"`
	Slug string `json:"slug"`

	// Index is the zero-based position in Form.Steps.
	Index int `json:"index"`

	// Label is the human-readable name used for titles and progress nodes.
	Label string `json:"formDefinition"`
}
