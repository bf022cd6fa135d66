package runtime

import "github.com/refinehq/refine/pkg/domain"

// Route picks the next node from the committed state alone. Rules are
// evaluated in priority order; the first match wins. Termination rules
// (completion, step limit) outrank every oracle verdict, so no oracle
// output can keep a run alive past its bounds.
func Route(s *domain.State) domain.NodeID {
	if s.Complete {
		return domain.NodeFinalize
	}
	if s.CurrentStep > s.MaxSteps {
		return domain.NodeFinalize
	}
	// No verdict pending. Specialist nodes consume the verdict when they
	// run, so control always returns to the supervisor between hops.
	if s.SupervisorDecision == "" || s.ActiveAgent == "" {
		return domain.NodeSupervisor
	}
	switch s.SupervisorDecision {
	case domain.DecisionEnd:
		return domain.NodeFinalize
	case domain.DecisionDebate:
		return domain.NodeDebateAnalyzer
	case domain.DecisionContinue:
		node, _ := domain.NodeForAgent(s.ActiveAgent)
		return node
	}
	return domain.NodeSupervisor
}
