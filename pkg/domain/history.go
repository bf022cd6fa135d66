package domain

import "time"

// HistoryEntry records one node execution in the run ledger. Entries are
// immutable once appended.
type HistoryEntry struct {
	// Step is the supervisor step counter at execution time.
	Step int `json:"step"`

	// Agent is the string id of the executing node's agent
	// (e.g. "supervisor", "domain_expert", "classifier", "finalizer").
	Agent string `json:"agent"`

	// Timestamp is when the node finished.
	Timestamp time.Time `json:"timestamp"`

	// Decision and NextAgent are set by supervisor entries only.
	Decision  Decision  `json:"decision,omitempty"`
	NextAgent AgentType `json:"next_agent,omitempty"`

	// Reasoning is the oracle's explanation (supervisor entries only).
	Reasoning string `json:"reasoning,omitempty"`

	// AnalysisCompleted is set by specialist entries.
	AnalysisCompleted bool `json:"analysis_completed,omitempty"`

	// AggregationCompleted is set by the moderator entry.
	AggregationCompleted bool `json:"aggregation_completed,omitempty"`

	// DebateCategory is set by debate-analyzer entries.
	DebateCategory DebateCategory `json:"debate_category,omitempty"`

	// QueryType and DebateShortCircuit are set by the classifier entry.
	QueryType          QueryType `json:"query_type,omitempty"`
	DebateShortCircuit bool      `json:"debate_shortcircuit,omitempty"`

	// FinalAnswerGenerated is set by the finalizer entry.
	FinalAnswerGenerated bool `json:"final_answer_generated,omitempty"`
}

// Agent ids used in history entries for nodes that are not AgentType
// members.
const (
	HistoryAgentClassifier     = "classifier"
	HistoryAgentDebateAnalyzer = "debate_analyzer"
	HistoryAgentFinalizer      = "finalizer"
)
