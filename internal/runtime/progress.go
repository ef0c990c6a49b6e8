package runtime

import (
	"github.com/aretw0/formflow/pkg/domain"
)

// ProgressInput carries everything the progress indicator is derived from.
// The builder is a pure function of this value.
type ProgressInput struct {
	Form       *domain.Form
	Submission *domain.Submission

	// CurrentPath is the path of the view currently shown; the node whose
	// href matches it is marked active.
	CurrentPath string

	// Completed is true once background processing succeeded.
	Completed bool

	// Authenticated is true when the user is logged in.
	Authenticated bool

	Labels domain.Labels
}

// buildContext is the resolved view of a ProgressInput shared by the fixed
// node rules.
type buildContext struct {
	in           ProgressInput
	needsPayment bool
	hasPaid      bool
	showOverview bool
	allCompleted bool
	canSubmit    bool
}

// fixedRule pairs a guard predicate with a node factory. Rules are evaluated
// in a fixed priority order, which keeps the insertion policy declarative
// and independently testable.
type fixedRule struct {
	guard func(c *buildContext) bool
	node  func(c *buildContext) domain.ProgressNode
}

var leadingRules = []fixedRule{
	{
		guard: func(c *buildContext) bool { return c.in.Form.IntroductionPageContent != "" },
		node: func(c *buildContext) domain.ProgressNode {
			return fixedNode(domain.FixedIntroduction, c.in.Labels.Introduction, domain.PathIntroduction, true)
		},
	},
	{
		guard: func(c *buildContext) bool { return c.in.Form.LoginRequired && !c.in.Authenticated },
		node: func(c *buildContext) domain.ProgressNode {
			return fixedNode(domain.FixedLogin, c.in.Labels.Login, domain.PathLogin, true)
		},
	},
}

var trailingRules = []fixedRule{
	{
		guard: func(c *buildContext) bool { return c.showOverview },
		node: func(c *buildContext) domain.ProgressNode {
			return fixedNode(domain.FixedOverview, c.in.Labels.Overview, domain.PathOverview, c.allCompleted)
		},
	},
	{
		guard: func(c *buildContext) bool { return c.needsPayment && !c.hasPaid },
		node: func(c *buildContext) domain.ProgressNode {
			return fixedNode(domain.FixedPayment, c.in.Labels.Payment, domain.PathPayment, c.allCompleted && c.canSubmit)
		},
	},
	{
		guard: func(c *buildContext) bool { return c.in.Completed },
		node: func(c *buildContext) domain.ProgressNode {
			return fixedNode(domain.FixedConfirmation, c.in.Labels.Confirmation, domain.PathConfirmation, true)
		},
	},
}

// BuildProgressNodes produces the ordered, display-ready list of progress
// nodes: the dynamic form steps wrapped by the fixed pseudo-steps whose
// guards hold. Pure function, safe to call on every evaluation.
func BuildProgressNodes(in ProgressInput) []domain.ProgressNode {
	c := &buildContext{
		in:           in,
		showOverview: in.Submission.EffectiveSubmissionAllowed(in.Form) != domain.SubmissionAllowedNoWithoutOverview,
		needsPayment: in.Form.PaymentRequired,
	}
	if sub := in.Submission; sub != nil {
		c.needsPayment = sub.Payment.IsRequired
		c.hasPaid = sub.Payment.HasPaid
		c.allCompleted = sub.AllApplicableCompleted()
		c.canSubmit = sub.CanSubmit
	}

	nodes := make([]domain.ProgressNode, 0, len(in.Form.Steps)+5)

	for _, rule := range leadingRules {
		if rule.guard(c) {
			nodes = append(nodes, rule.node(c))
		}
	}

	for _, step := range in.Form.Steps {
		node := stepNode(in, step)
		if in.Form.HideNonApplicableSteps && !node.IsApplicable {
			continue
		}
		nodes = append(nodes, node)
	}

	for _, rule := range trailingRules {
		if rule.guard(c) {
			nodes = append(nodes, rule.node(c))
		}
	}

	for i := range nodes {
		nodes[i].Index = i
		nodes[i].IsActive = nodes[i].Href == in.CurrentPath
	}
	return nodes
}

// stepNode maps one dynamic form step to a progress node, pulling status
// from the matching submission record when a submission exists. Without a
// submission every step defaults to applicable and not completed.
func stepNode(in ProgressInput, step domain.Step) domain.ProgressNode {
	node := domain.ProgressNode{
		Kind:         domain.NodeKindStep,
		Label:        step.Label,
		Href:         domain.StepPath(step.Slug),
		IsApplicable: true,
	}
	if status, ok := in.Submission.StepStatus(step.Index); ok {
		node.IsApplicable = status.IsApplicable
		node.IsCompleted = status.Completed
	}
	node.CanNavigateTo = stepReachable(in.Submission, step.Index)
	return node
}

// stepReachable reports whether every applicable step before index is
// completed. The first (applicable) step is always reachable.
func stepReachable(sub *domain.Submission, index int) bool {
	if sub == nil {
		return index == 0
	}
	for i := 0; i < index; i++ {
		status, ok := sub.StepStatus(i)
		if !ok {
			return false
		}
		if status.IsApplicable && !status.Completed {
			return false
		}
	}
	return true
}

func fixedNode(kind domain.FixedKind, label, href string, navigable bool) domain.ProgressNode {
	return domain.ProgressNode{
		Kind:          domain.NodeKindFixed,
		FixedKind:     kind,
		Label:         label,
		Href:          href,
		IsApplicable:  true,
		CanNavigateTo: navigable,
	}
}
