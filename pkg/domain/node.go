package domain

// NodeID is the closed set of workflow nodes. The router maps state to one
// of these; no other nodes exist.
type NodeID string

const (
	NodeClassify       NodeID = "classify"
	NodeSupervisor     NodeID = "supervisor"
	NodeDomainExpert   NodeID = "domain_expert"
	NodeUXUI           NodeID = "ux_ui_specialist"
	NodeTechnical      NodeID = "technical_architect"
	NodeRevenue        NodeID = "revenue_model_analyst"
	NodeDebateAnalyzer NodeID = "debate_analyzer"
	NodeModerator      NodeID = "moderator"
	NodeFinalize       NodeID = "finalize"
)

// NodeForAgent maps an oracle recommendation to its executing node. The
// second return is false for unrecognized agents; the router treats that
// as the explicit supervisor fallback, never an error.
func NodeForAgent(agent AgentType) (NodeID, bool) {
	switch agent {
	case AgentDomainExpert:
		return NodeDomainExpert, true
	case AgentUXUI:
		return NodeUXUI, true
	case AgentTechnical:
		return NodeTechnical, true
	case AgentRevenue:
		return NodeRevenue, true
	case AgentModerator:
		return NodeModerator, true
	default:
		return NodeSupervisor, false
	}
}
