package domain

// Delta is the state update produced by one node execution. Scalar fields
// are shallow overwrites (nil pointer means "unchanged"); History and
// Messages are appends. The engine merges deltas into a clone of the
// committed state, so a node that fails mid-flight changes nothing.
type Delta struct {
	QueryType      *QueryType
	DebateCategory *DebateCategory

	DomainAnalysis    *string
	UXAnalysis        *string
	TechnicalAnalysis *string
	RevenueAnalysis   *string

	ModeratorAggregation *string
	DebateResolution     *string
	FinalAnswer          *string

	ActiveAgent         *AgentType
	SupervisorDecision  *Decision
	SupervisorReasoning *string

	CurrentStep *int
	Complete    *bool

	ProcessingTime float64

	History  []HistoryEntry
	Messages []string
}

// Apply merges the delta into a copy of s and returns it. s itself is
// never mutated.
func (d *Delta) Apply(s *State) *State {
	next := s.Clone()

	if d.QueryType != nil {
		next.QueryType = *d.QueryType
	}
	if d.DebateCategory != nil {
		next.DebateCategory = *d.DebateCategory
	}
	if d.DomainAnalysis != nil {
		next.DomainAnalysis = *d.DomainAnalysis
	}
	if d.UXAnalysis != nil {
		next.UXAnalysis = *d.UXAnalysis
	}
	if d.TechnicalAnalysis != nil {
		next.TechnicalAnalysis = *d.TechnicalAnalysis
	}
	if d.RevenueAnalysis != nil {
		next.RevenueAnalysis = *d.RevenueAnalysis
	}
	if d.ModeratorAggregation != nil {
		next.ModeratorAggregation = *d.ModeratorAggregation
	}
	if d.DebateResolution != nil {
		next.DebateResolution = *d.DebateResolution
	}
	if d.FinalAnswer != nil {
		next.FinalAnswer = *d.FinalAnswer
	}
	if d.ActiveAgent != nil {
		next.ActiveAgent = *d.ActiveAgent
	}
	if d.SupervisorDecision != nil {
		next.SupervisorDecision = *d.SupervisorDecision
	}
	if d.SupervisorReasoning != nil {
		next.SupervisorReasoning = *d.SupervisorReasoning
	}
	if d.CurrentStep != nil {
		next.CurrentStep = *d.CurrentStep
	}
	if d.Complete != nil {
		next.Complete = *d.Complete
	}
	next.ProcessingTime = d.ProcessingTime
	next.History = append(next.History, d.History...)
	next.Messages = append(next.Messages, d.Messages...)

	return next
}

// Ptr is a small helper for building deltas.
func Ptr[T any](v T) *T {
	return &v
}
