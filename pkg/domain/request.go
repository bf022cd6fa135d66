package domain

// RunRequest is the caller-facing request for one refinement run.
type RunRequest struct {
	Query         string `json:"query"`
	QueryTypeHint string `json:"query_type,omitempty"`
	DebateContent string `json:"debate_content,omitempty"`
	ThreadID      string `json:"thread_id,omitempty"`
}

// RunResponse is the caller-facing result of a completed run. Optional
// analysis fields are empty when the corresponding node never ran, which
// is how callers detect a partial (step- or time-limited) result.
type RunResponse struct {
	Answer               string         `json:"answer"`
	ProcessingTime       float64        `json:"processing_time"`
	QueryType            string         `json:"query_type"`
	DebateCategory       string         `json:"debate_category,omitempty"`
	DomainAnalysis       string         `json:"domain_analysis,omitempty"`
	UXAnalysis           string         `json:"ux_analysis,omitempty"`
	TechnicalAnalysis    string         `json:"technical_analysis,omitempty"`
	RevenueAnalysis      string         `json:"revenue_analysis,omitempty"`
	ModeratorAggregation string         `json:"moderator_aggregation,omitempty"`
	DebateResolution     string         `json:"debate_resolution,omitempty"`
	History              []HistoryEntry `json:"agent_history,omitempty"`
	SupervisorReasoning  string         `json:"supervisor_reasoning,omitempty"`
}

// ResponseFrom assembles the run response from a terminal state.
// totalSeconds is the wall-clock duration of the whole run (the state's
// own ProcessingTime only covers the last node).
func ResponseFrom(s *State, totalSeconds float64) *RunResponse {
	answer := s.FinalAnswer
	if len(s.Messages) > 0 {
		answer = s.Messages[len(s.Messages)-1]
	}
	return &RunResponse{
		Answer:               answer,
		ProcessingTime:       totalSeconds,
		QueryType:            string(s.QueryType),
		DebateCategory:       string(s.DebateCategory),
		DomainAnalysis:       s.DomainAnalysis,
		UXAnalysis:           s.UXAnalysis,
		TechnicalAnalysis:    s.TechnicalAnalysis,
		RevenueAnalysis:      s.RevenueAnalysis,
		ModeratorAggregation: s.ModeratorAggregation,
		DebateResolution:     s.DebateResolution,
		History:              s.History,
		SupervisorReasoning:  s.SupervisorReasoning,
	}
}
