package runtime

import (
	"context"
	"strings"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// debateKeywords trigger the debate short-circuit. Matching is
// case-insensitive substring matching against the raw query.
var debateKeywords = []string{
	"debate", "conflict", "disagreement", "argument", "dispute", "controversy",
}

func isDebateQuery(query string) bool {
	lowered := strings.ToLower(query)
	for _, kw := range debateKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// classify determines the query type. Debate-flavored queries skip the
// classification provider entirely and pre-seat the moderator as the
// debate category.
func (e *Engine) classify(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	if isDebateQuery(s.UserQuery) {
		return &domain.Delta{
			QueryType:      domain.Ptr(domain.QueryGeneral),
			DebateCategory: domain.Ptr(domain.DebateModerator),
			History: []domain.HistoryEntry{{
				Step:               s.CurrentStep,
				Agent:              domain.HistoryAgentClassifier,
				Timestamp:          e.now(),
				QueryType:          domain.QueryGeneral,
				DebateShortCircuit: true,
			}},
		}, nil
	}

	result, err := e.provider.ClassifyQuery(ctx, ports.AnalysisRequest{
		Query:       s.UserQuery,
		CurrentDate: currentDate(e.now()),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeClassify, "classify_query", err)
	}

	return &domain.Delta{
		QueryType: domain.Ptr(result.QueryType),
		History: []domain.HistoryEntry{{
			Step:      s.CurrentStep,
			Agent:     domain.HistoryAgentClassifier,
			Timestamp: e.now(),
			QueryType: result.QueryType,
		}},
	}, nil
}
