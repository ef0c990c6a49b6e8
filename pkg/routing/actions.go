// Package routing maps external action tokens to internal paths. It is used
// when the engine is entered from an external link, such as an email resume
// link or a payment-provider callback.
package routing

import (
	"net/url"
)

// Action is one of the recognized external entry actions.
type Action string

const (
	ActionResume            Action = "resume"
	ActionCosign            Action = "cosign"
	ActionPayment           Action = "payment"
	ActionCreateAppointment Action = "afspraak-maken"
	ActionCancelAppointment Action = "afspraak-annuleren"
)

// Redirect is the internal destination for an external action.
// An empty Path means the caller should fall back to the form root.
type Redirect struct {
	Path  string
	Query url.Values
}

// RedirectParams returns the internal path and query parameters for an
// external action. It is a total function over the closed action enum; the
// default case yields an empty redirect.
func RedirectParams(action Action, params url.Values) Redirect {
	switch action {
	case ActionResume:
		return Redirect{
			Path:  "stap/" + params.Get("step_slug"),
			Query: url.Values{"submission_uuid": {params.Get("submission_uuid")}},
		}
	case ActionCosign:
		return Redirect{Path: "cosign/check", Query: params}
	case ActionPayment:
		return Redirect{Path: "betalen", Query: params}
	case ActionCreateAppointment:
		return Redirect{Path: "afspraak-maken"}
	case ActionCancelAppointment:
		return Redirect{Path: "afspraak-annuleren", Query: params}
	default:
		return Redirect{}
	}
}
