package runtime

import (
	"context"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// Specialist nodes run their provider analysis, overwrite their owned
// analysis block, and consume the pending verdict so routing returns to
// the supervisor.

func (e *Engine) analysisRequest(s *domain.State) ports.AnalysisRequest {
	return ports.AnalysisRequest{
		Query:       s.UserQuery,
		CurrentDate: currentDate(e.now()),
	}
}

func (e *Engine) specialistDelta(s *domain.State, agent domain.AgentType) *domain.Delta {
	return &domain.Delta{
		SupervisorDecision: domain.Ptr(domain.Decision("")),
		History: []domain.HistoryEntry{{
			Step:              s.CurrentStep,
			Agent:             string(agent),
			Timestamp:         e.now(),
			AnalysisCompleted: true,
		}},
	}
}

func (e *Engine) domainExpert(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.provider.AnalyzeDomain(ctx, e.analysisRequest(s))
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeDomainExpert, "domain_analysis", err)
	}
	delta := e.specialistDelta(s, domain.AgentDomainExpert)
	delta.DomainAnalysis = domain.Ptr(formatDomainAnalysis(result))
	return delta, nil
}

func (e *Engine) uxSpecialist(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.provider.AnalyzeUX(ctx, e.analysisRequest(s))
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeUXUI, "ux_analysis", err)
	}
	delta := e.specialistDelta(s, domain.AgentUXUI)
	delta.UXAnalysis = domain.Ptr(formatUXAnalysis(result))
	return delta, nil
}

func (e *Engine) technicalArchitect(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.provider.AnalyzeTechnical(ctx, e.analysisRequest(s))
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeTechnical, "technical_analysis", err)
	}
	delta := e.specialistDelta(s, domain.AgentTechnical)
	delta.TechnicalAnalysis = domain.Ptr(formatTechnicalAnalysis(result))
	return delta, nil
}

func (e *Engine) revenueAnalyst(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.provider.AnalyzeRevenue(ctx, e.analysisRequest(s))
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeRevenue, "revenue_analysis", err)
	}
	delta := e.specialistDelta(s, domain.AgentRevenue)
	delta.RevenueAnalysis = domain.Ptr(formatRevenueAnalysis(result))
	return delta, nil
}
