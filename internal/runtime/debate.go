package runtime

import (
	"context"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// analyzeDebate resolves conflict material to a specialist category. The
// caller-supplied debate content falls back to the query itself.
func (e *Engine) analyzeDebate(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	content := s.DebateContent
	if content == "" {
		content = s.UserQuery
	}
	result, err := e.provider.AnalyzeDebate(ctx, ports.DebateRequest{
		Query:       s.UserQuery,
		Content:     content,
		CurrentDate: currentDate(e.now()),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeDebateAnalyzer, "debate_analysis", err)
	}

	return &domain.Delta{
		DebateCategory:     domain.Ptr(result.DebateCategory),
		DebateResolution:   domain.Ptr(formatDebateResolution(result)),
		SupervisorDecision: domain.Ptr(domain.Decision("")),
		History: []domain.HistoryEntry{{
			Step:           s.CurrentStep,
			Agent:          domain.HistoryAgentDebateAnalyzer,
			Timestamp:      e.now(),
			DebateCategory: result.DebateCategory,
		}},
	}, nil
}
