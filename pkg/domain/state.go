package domain

import "time"

// QueryType classifies the incoming product-requirements query.
type QueryType string

const (
	QueryDomain    QueryType = "domain"
	QueryUXUI      QueryType = "ux_ui"
	QueryTechnical QueryType = "technical"
	QueryRevenue   QueryType = "revenue"
	QueryGeneral   QueryType = "general"
)

// AgentType identifies an agent the oracle can recommend.
type AgentType string

const (
	AgentSupervisor   AgentType = "supervisor"
	AgentDomainExpert AgentType = "domain_expert"
	AgentUXUI         AgentType = "ux_ui_specialist"
	AgentTechnical    AgentType = "technical_architect"
	AgentRevenue      AgentType = "revenue_model_analyst"
	AgentModerator    AgentType = "moderator"
)

// DebateCategory names the specialist a debate should be routed to.
type DebateCategory string

const (
	DebateDomainExpert DebateCategory = "domain_expert"
	DebateUXUI         DebateCategory = "ux_ui_specialist"
	DebateTechnical    DebateCategory = "technical_architect"
	DebateRevenue      DebateCategory = "revenue_model_analyst"
	DebateModerator    DebateCategory = "moderator"
)

// Decision is the oracle's coarse verdict on how the run should proceed.
type Decision string

const (
	DecisionContinue Decision = "continue"
	DecisionEnd      Decision = "end"
	DecisionDebate   Decision = "debate"
)

// DefaultMaxSteps bounds supervisor invocations when the caller does not
// configure a limit.
const DefaultMaxSteps = 10

// State is the single mutable record threaded through one refinement run.
// It is owned exclusively by the engine for the duration of the run; every
// field below names the node allowed to write it.
type State struct {
	// ThreadID correlates the run with prior runs for conversational
	// context. Empty disables persistence, never correctness.
	ThreadID string `json:"thread_id,omitempty"`

	// UserQuery is immutable once set.
	UserQuery string `json:"user_query"`

	// DebateContent is optional caller-supplied conflict material. The
	// debate analyzer falls back to UserQuery when it is empty.
	DebateContent string `json:"debate_content,omitempty"`

	// QueryType is written once by the classify node.
	QueryType QueryType `json:"query_type"`

	// DebateCategory is set by classify (heuristic) or the debate
	// analyzer. Empty until a debate path is triggered.
	DebateCategory DebateCategory `json:"debate_category,omitempty"`

	// Specialist analysis blocks. Each is written only by its owning
	// node; re-invocation overwrites.
	DomainAnalysis    string `json:"domain_expert_analysis,omitempty"`
	UXAnalysis        string `json:"ux_ui_specialist_analysis,omitempty"`
	TechnicalAnalysis string `json:"technical_architect_analysis,omitempty"`
	RevenueAnalysis   string `json:"revenue_model_analyst_analysis,omitempty"`

	// ModeratorAggregation is written only by the moderator node.
	ModeratorAggregation string `json:"moderator_aggregation,omitempty"`

	// DebateResolution is written only by the debate analyzer.
	DebateResolution string `json:"debate_resolution,omitempty"`

	// FinalAnswer is written only by the finalize node.
	FinalAnswer string `json:"final_answer,omitempty"`

	// ActiveAgent is the oracle's most recent recommendation.
	ActiveAgent AgentType `json:"active_agent,omitempty"`

	// SupervisorDecision is the oracle's most recent verdict.
	SupervisorDecision Decision `json:"supervisor_decision,omitempty"`

	// SupervisorReasoning is informational prose from the oracle.
	SupervisorReasoning string `json:"supervisor_reasoning,omitempty"`

	// History is the append-only ledger of every node execution in this
	// run. Never reordered or truncated.
	History []HistoryEntry `json:"agent_history"`

	// Messages holds run-level output messages. Finalize appends the
	// final answer here.
	Messages []string `json:"messages,omitempty"`

	// CurrentStep increases by exactly 1 on every supervisor invocation
	// and never decreases. Starts at 1.
	CurrentStep int `json:"current_step"`

	// MaxSteps bounds supervisor invocations. Router rule 2 forces
	// finalize once CurrentStep exceeds it.
	MaxSteps int `json:"max_steps"`

	// Complete is set only by the finalize node and never reset.
	Complete bool `json:"is_complete"`

	// ProcessingTime is the last node's elapsed seconds, overwritten per
	// node execution.
	ProcessingTime float64 `json:"processing_time"`
}

// NewState creates the initial state for a run.
func NewState(threadID, query string, maxSteps int) *State {
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}
	return &State{
		ThreadID:    threadID,
		UserQuery:   query,
		QueryType:   QueryGeneral,
		CurrentStep: 1,
		MaxSteps:    maxSteps,
	}
}

// Clone returns a deep copy. Deltas are merged into clones so a failing
// node execution can never corrupt the committed state.
func (s *State) Clone() *State {
	c := *s
	c.History = make([]HistoryEntry, len(s.History))
	copy(c.History, s.History)
	c.Messages = make([]string, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// AnalysisFor returns the analysis block owned by the given agent, or ""
// for non-specialist agents.
func (s *State) AnalysisFor(agent AgentType) string {
	switch agent {
	case AgentDomainExpert:
		return s.DomainAnalysis
	case AgentUXUI:
		return s.UXAnalysis
	case AgentTechnical:
		return s.TechnicalAnalysis
	case AgentRevenue:
		return s.RevenueAnalysis
	default:
		return ""
	}
}

// Partial reports whether the run terminated without a moderator pass,
// i.e. the answer was assembled from an incomplete set of analyses.
func (s *State) Partial() bool {
	return s.Complete && s.ModeratorAggregation == ""
}

// Snapshot is the conversation-store record for one saved state. Adapters
// persist snapshots, never live states.
type Snapshot struct {
	ThreadID       string         `json:"thread_id"`
	Timestamp      time.Time      `json:"timestamp"`
	UserQuery      string         `json:"user_query"`
	QueryType      QueryType      `json:"query_type"`
	CurrentStep    int            `json:"current_step"`
	ActiveAgent    AgentType      `json:"active_agent,omitempty"`
	FinalAnswer    string         `json:"final_answer,omitempty"`
	ProcessingTime float64        `json:"processing_time"`
	History        []HistoryEntry `json:"agent_history,omitempty"`
}

// SnapshotOf captures the persistable view of a state.
func SnapshotOf(s *State, now time.Time) *Snapshot {
	history := make([]HistoryEntry, len(s.History))
	copy(history, s.History)
	return &Snapshot{
		ThreadID:       s.ThreadID,
		Timestamp:      now.UTC(),
		UserQuery:      s.UserQuery,
		QueryType:      s.QueryType,
		CurrentStep:    s.CurrentStep,
		ActiveAgent:    s.ActiveAgent,
		FinalAnswer:    s.FinalAnswer,
		ProcessingTime: s.ProcessingTime,
		History:        history,
	}
}
