package runtime

import "github.com/refinehq/refine/pkg/domain"

// Stream event types. Transport adapters forward these verbatim.
const (
	EventSupervisorDecision   = "supervisor_decision"
	EventDomainExpert         = "domain_expert"
	EventUXUISpecialist       = "ux_ui_specialist"
	EventTechnicalArchitect   = "technical_architect"
	EventRevenueModelAnalyst  = "revenue_model_analyst"
	EventModeratorAggregation = "moderator_aggregation"
	EventDebateAnalysis       = "debate_analysis"
	EventFinalAnswer          = "final_answer"
	EventComplete             = "complete"
	EventError                = "error"
)

// Event is one progress notification emitted during a streaming run.
type Event struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// EventSink receives events as nodes commit. Sinks are called from the
// run goroutine and must not block for long.
type EventSink func(Event)

// eventFor maps a committed node execution to its stream event. The
// classify node emits nothing; its outcome surfaces through the first
// supervisor decision.
func eventFor(node domain.NodeID, s *domain.State) (Event, bool) {
	switch node {
	case domain.NodeSupervisor:
		return Event{Type: EventSupervisorDecision, Content: s.SupervisorReasoning}, true
	case domain.NodeDomainExpert:
		return Event{Type: EventDomainExpert, Content: s.DomainAnalysis}, true
	case domain.NodeUXUI:
		return Event{Type: EventUXUISpecialist, Content: s.UXAnalysis}, true
	case domain.NodeTechnical:
		return Event{Type: EventTechnicalArchitect, Content: s.TechnicalAnalysis}, true
	case domain.NodeRevenue:
		return Event{Type: EventRevenueModelAnalyst, Content: s.RevenueAnalysis}, true
	case domain.NodeModerator:
		return Event{Type: EventModeratorAggregation, Content: s.ModeratorAggregation}, true
	case domain.NodeDebateAnalyzer:
		return Event{Type: EventDebateAnalysis, Content: s.DebateResolution}, true
	case domain.NodeFinalize:
		return Event{Type: EventFinalAnswer, Content: s.FinalAnswer}, true
	}
	return Event{}, false
}
