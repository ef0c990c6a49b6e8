package domain

// NodeKind distinguishes fixed pseudo-steps from dynamic form steps.
type NodeKind string

const (
	NodeKindFixed NodeKind = "fixed"
	NodeKindStep  NodeKind = "step"
)

// FixedKind identifies one of the fixed pseudo-steps.
type FixedKind string

const (
	FixedIntroduction FixedKind = "introduction"
	FixedLogin        FixedKind = "login"
	FixedOverview     FixedKind = "overview"
	FixedPayment      FixedKind = "payment"
	FixedConfirmation FixedKind = "confirmation"
)

// Route paths, matching the public URL scheme of the hosting page.
const (
	PathIntroduction = "/introductie"
	PathLogin        = "/startpagina"
	PathStepPrefix   = "/stap/"
	PathOverview     = "/overzicht"
	PathPayment      = "/betalen"
	PathConfirmation = "/bevestiging"
)

// StepPath returns the route path for a dynamic step.
func StepPath(slug string) string {
	return PathStepPrefix + slug
}

// ProgressNode is one display-ready entry of the progress indicator.
// Nodes are ephemeral: rebuilt on every evaluation, never persisted.
type ProgressNode struct {
	Kind      NodeKind  `json:"kind"`
	FixedKind FixedKind `json:"fixedKind,omitempty"`

	Label string `json:"label"`
	Href  string `json:"href"`

	// Index is the display position within the built node list.
	Index int `json:"index"`

	IsActive      bool `json:"isActive"`
	CanNavigateTo bool `json:"canNavigateTo"`
	IsApplicable  bool `json:"isApplicable"`
	IsCompleted   bool `json:"isCompleted"`
}

// Labels carries the display names of the fixed pseudo-steps. The host owns
// internationalization; the engine only passes these through.
type Labels struct {
	Introduction string
	Login        string
	Overview     string
	Payment      string
	Confirmation string
}

// DefaultLabels returns the English fallback labels.
func DefaultLabels() Labels {
	return Labels{
		Introduction: "Introduction",
		Login:        "Start page",
		Overview:     "Summary",
		Payment:      "Payment",
		Confirmation: "Confirmation",
	}
}
