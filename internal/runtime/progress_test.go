package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/formflow/internal/runtime"
	"github.com/aretw0/formflow/pkg/domain"
)

func demoForm() *domain.Form {
	return &domain.Form{
		ID:                "form-1",
		Name:              "Demo",
		Slug:              "demo",
		SubmissionAllowed: domain.SubmissionAllowedYes,
		Steps: []domain.Step{
			{ID: "s0", Slug: "personal-details", Index: 0, Label: "Personal details"},
			{ID: "s1", Slug: "household", Index: 1, Label: "Household"},
			{ID: "s2", Slug: "attachments", Index: 2, Label: "Attachments"},
		},
	}
}

func demoSubmission(form *domain.Form, status ...[2]bool) *domain.Submission {
	sub := &domain.Submission{ID: "sub-1", CanSubmit: true}
	for i, s := range status {
		sub.Steps = append(sub.Steps, domain.SubmissionStep{
			Step:         form.Steps[i],
			IsApplicable: s[0],
			Completed:    s[1],
		})
	}
	return sub
}

func nodeKinds(nodes []domain.ProgressNode) []domain.FixedKind {
	kinds := make([]domain.FixedKind, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == domain.NodeKindFixed {
			kinds = append(kinds, n.FixedKind)
		} else {
			kinds = append(kinds, "step")
		}
	}
	return kinds
}

func TestBuildProgressNodes_PreservesStepOrder(t *testing.T) {
	form := demoForm()
	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:   form,
		Labels: domain.DefaultLabels(),
	})

	var stepLabels []string
	for _, n := range nodes {
		if n.Kind == domain.NodeKindStep {
			stepLabels = append(stepLabels, n.Label)
		}
	}
	assert.Equal(t, []string{"Personal details", "Household", "Attachments"}, stepLabels)
}

func TestBuildProgressNodes_Idempotent(t *testing.T) {
	form := demoForm()
	in := runtime.ProgressInput{
		Form:        form,
		Submission:  demoSubmission(form, [2]bool{true, true}, [2]bool{false, false}, [2]bool{true, false}),
		CurrentPath: "/stap/attachments",
		Labels:      domain.DefaultLabels(),
	}

	first := runtime.BuildProgressNodes(in)
	second := runtime.BuildProgressNodes(in)
	assert.Equal(t, first, second, "pure function of its inputs")
}

func TestBuildProgressNodes_OverviewPresence(t *testing.T) {
	tests := []struct {
		name     string
		allowed  domain.SubmissionAllowed
		expected bool
	}{
		{"yes", domain.SubmissionAllowedYes, true},
		{"no with overview", domain.SubmissionAllowedNoWithOverview, true},
		{"no without overview", domain.SubmissionAllowedNoWithoutOverview, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := demoForm()
			form.SubmissionAllowed = tt.allowed

			nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
				Form:   form,
				Labels: domain.DefaultLabels(),
			})

			found := false
			for _, n := range nodes {
				if n.FixedKind == domain.FixedOverview {
					found = true
				}
			}
			assert.Equal(t, tt.expected, found, "overview node absent iff submission allowed is no_without_overview")
		})
	}
}

func TestBuildProgressNodes_NoOverviewNoPayment(t *testing.T) {
	// Scenario: no_without_overview, payment not required: the node list
	// ends with the last dynamic step.
	form := demoForm()
	form.SubmissionAllowed = domain.SubmissionAllowedNoWithoutOverview

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:   form,
		Labels: domain.DefaultLabels(),
	})

	require.NotEmpty(t, nodes)
	last := nodes[len(nodes)-1]
	assert.Equal(t, domain.NodeKindStep, last.Kind)
	assert.Equal(t, "Attachments", last.Label)
}

func TestBuildProgressNodes_PaymentNode(t *testing.T) {
	form := demoForm()
	sub := demoSubmission(form, [2]bool{true, true}, [2]bool{true, true}, [2]bool{true, true})
	sub.Payment = domain.Payment{IsRequired: true, Amount: "15.00"}

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})
	assert.Equal(t,
		[]domain.FixedKind{"step", "step", "step", domain.FixedOverview, domain.FixedPayment},
		nodeKinds(nodes),
	)

	// Once paid, the payment node disappears.
	sub.Payment.HasPaid = true
	nodes = runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})
	assert.Equal(t,
		[]domain.FixedKind{"step", "step", "step", domain.FixedOverview},
		nodeKinds(nodes),
	)
}

func TestBuildProgressNodes_PaymentFromFormBeforeSubmission(t *testing.T) {
	form := demoForm()
	form.PaymentRequired = true

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:   form,
		Labels: domain.DefaultLabels(),
	})
	assert.Contains(t, nodeKinds(nodes), domain.FixedPayment,
		"before a submission exists the form-level payment flag decides")
}

func TestBuildProgressNodes_FixedNodeOrder(t *testing.T) {
	form := demoForm()
	form.IntroductionPageContent = "<p>welcome</p>"
	form.LoginRequired = true
	sub := demoSubmission(form, [2]bool{true, true}, [2]bool{true, true}, [2]bool{true, true})
	sub.Payment = domain.Payment{IsRequired: true}

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Completed:  true,
		Labels:     domain.DefaultLabels(),
	})
	assert.Equal(t, []domain.FixedKind{
		domain.FixedIntroduction,
		domain.FixedLogin,
		"step", "step", "step",
		domain.FixedOverview,
		domain.FixedPayment,
		domain.FixedConfirmation,
	}, nodeKinds(nodes))
}

func TestBuildProgressNodes_LoginHiddenWhenAuthenticated(t *testing.T) {
	form := demoForm()
	form.LoginRequired = true

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:          form,
		Authenticated: true,
		Labels:        domain.DefaultLabels(),
	})
	assert.NotContains(t, nodeKinds(nodes), domain.FixedLogin)
}

func TestBuildProgressNodes_HideNonApplicableSteps(t *testing.T) {
	form := demoForm()
	form.HideNonApplicableSteps = true
	sub := demoSubmission(form, [2]bool{true, true}, [2]bool{false, false}, [2]bool{true, false})

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})

	for _, n := range nodes {
		assert.True(t, n.IsApplicable, "non-applicable steps are filtered out")
		assert.NotEqual(t, "Household", n.Label)
	}
}

func TestBuildProgressNodes_ActiveNode(t *testing.T) {
	form := demoForm()

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:        form,
		CurrentPath: "/stap/household",
		Labels:      domain.DefaultLabels(),
	})

	var active []string
	for _, n := range nodes {
		if n.IsActive {
			active = append(active, n.Href)
		}
	}
	assert.Equal(t, []string{"/stap/household"}, active, "exactly one active node")
}

func TestBuildProgressNodes_NoActiveNodeOnUnknownPath(t *testing.T) {
	form := demoForm()

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:        form,
		CurrentPath: "/somewhere-else",
		Labels:      domain.DefaultLabels(),
	})

	for _, n := range nodes {
		assert.False(t, n.IsActive, "no node is guessed active mid-transition")
	}
}

func TestBuildProgressNodes_Navigability(t *testing.T) {
	form := demoForm()
	// Step 0 done, step 1 inapplicable, step 2 pending.
	sub := demoSubmission(form, [2]bool{true, true}, [2]bool{false, false}, [2]bool{true, false})

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})

	byHref := make(map[string]domain.ProgressNode)
	for _, n := range nodes {
		byHref[n.Href] = n
	}

	assert.True(t, byHref["/stap/personal-details"].CanNavigateTo)
	assert.True(t, byHref["/stap/attachments"].CanNavigateTo,
		"inapplicable step 1 does not block reaching step 2")
	assert.False(t, byHref["/overzicht"].CanNavigateTo,
		"overview unlocks only once every applicable step is completed")

	sub.Steps[2].Completed = true
	nodes = runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})
	for _, n := range nodes {
		if n.FixedKind == domain.FixedOverview {
			assert.True(t, n.CanNavigateTo)
		}
	}
}

func TestBuildProgressNodes_PreSubmissionDefaults(t *testing.T) {
	form := demoForm()

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:   form,
		Labels: domain.DefaultLabels(),
	})

	require.Len(t, nodes, 4) // 3 steps + overview
	assert.True(t, nodes[0].CanNavigateTo, "first step reachable pre-submission")
	assert.False(t, nodes[1].CanNavigateTo)
	assert.False(t, nodes[2].CanNavigateTo)
	for _, n := range nodes {
		assert.False(t, n.IsCompleted)
	}
}

func TestBuildProgressNodes_SubmissionAllowedOverride(t *testing.T) {
	form := demoForm()
	sub := demoSubmission(form, [2]bool{true, false}, [2]bool{true, false}, [2]bool{true, false})
	sub.SubmissionAllowed = domain.SubmissionAllowedNoWithoutOverview

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:       form,
		Submission: sub,
		Labels:     domain.DefaultLabels(),
	})
	assert.NotContains(t, nodeKinds(nodes), domain.FixedOverview,
		"submission-level override wins over the form definition")
}

func TestBuildProgressNodes_Indexes(t *testing.T) {
	form := demoForm()
	form.IntroductionPageContent = "intro"

	nodes := runtime.BuildProgressNodes(runtime.ProgressInput{
		Form:   form,
		Labels: domain.DefaultLabels(),
	})
	for i, n := range nodes {
		assert.Equal(t, i, n.Index)
	}
}
