package runtime

import (
	"context"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

func orPlaceholder(analysis, placeholder string) string {
	if analysis == "" {
		return placeholder
	}
	return analysis
}

// moderate aggregates whatever analyses exist. Missing analyses become
// explicit placeholders so the aggregation prompt never sees a blank
// section.
func (e *Engine) moderate(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.provider.Aggregate(ctx, ports.ModeratorRequest{
		Query:             s.UserQuery,
		DomainAnalysis:    orPlaceholder(s.DomainAnalysis, "No domain analysis provided"),
		UXAnalysis:        orPlaceholder(s.UXAnalysis, "No UX/UI analysis provided"),
		TechnicalAnalysis: orPlaceholder(s.TechnicalAnalysis, "No technical analysis provided"),
		RevenueAnalysis:   orPlaceholder(s.RevenueAnalysis, "No revenue analysis provided"),
		CurrentDate:       currentDate(e.now()),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeModerator, "moderator_aggregation", err)
	}

	return &domain.Delta{
		ModeratorAggregation: domain.Ptr(formatModeratorAggregation(result)),
		SupervisorDecision:   domain.Ptr(domain.Decision("")),
		History: []domain.HistoryEntry{{
			Step:                 s.CurrentStep,
			Agent:                string(domain.AgentModerator),
			Timestamp:            e.now(),
			AggregationCompleted: true,
		}},
	}, nil
}
