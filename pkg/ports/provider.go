package ports

import (
	"context"

	"github.com/refinehq/refine/pkg/domain"
)

// AnalysisRequest is the prompt context handed to classification and
// specialist providers.
type AnalysisRequest struct {
	Query       string
	CurrentDate string
}

// DebateRequest is the prompt context for the debate analyzer. Content
// falls back to Query when the caller supplied no debate material.
type DebateRequest struct {
	Query       string
	Content     string
	CurrentDate string
}

// ModeratorRequest carries the specialist analyses to aggregate. Missing
// analyses are substituted with explicit placeholders by the runtime
// before this request is built, never left empty.
type ModeratorRequest struct {
	Query             string
	DomainAnalysis    string
	UXAnalysis        string
	TechnicalAnalysis string
	RevenueAnalysis   string
	CurrentDate       string
}

// FinalizeRequest is the prompt context for final answer generation.
type FinalizeRequest struct {
	Query       string
	Aggregation string
	CurrentDate string
}

// Provider is the analysis-provider boundary. One implementation per
// backend (Gemini, Anthropic, scripted); each method is an opaque,
// possibly-failing, possibly-slow call. Retrying (bounded at 2 attempts)
// is the implementation's concern, not the engine's.
type Provider interface {
	ClassifyQuery(ctx context.Context, req AnalysisRequest) (*domain.Classification, error)
	AnalyzeDomain(ctx context.Context, req AnalysisRequest) (*domain.DomainAnalysisResult, error)
	AnalyzeUX(ctx context.Context, req AnalysisRequest) (*domain.UXAnalysisResult, error)
	AnalyzeTechnical(ctx context.Context, req AnalysisRequest) (*domain.TechnicalAnalysisResult, error)
	AnalyzeRevenue(ctx context.Context, req AnalysisRequest) (*domain.RevenueAnalysisResult, error)
	AnalyzeDebate(ctx context.Context, req DebateRequest) (*domain.DebateAnalysisResult, error)
	Aggregate(ctx context.Context, req ModeratorRequest) (*domain.ModeratorAggregationResult, error)
	Finalize(ctx context.Context, req FinalizeRequest) (string, error)
}

// OracleRequest is the full state view handed to the decision oracle.
// ConversationContext is prior-run context fetched best-effort from the
// conversation store; empty when unavailable.
type OracleRequest struct {
	Query                string
	CurrentStep          int
	MaxSteps             int
	History              []domain.HistoryEntry
	DomainAnalysis       string
	UXAnalysis           string
	TechnicalAnalysis    string
	RevenueAnalysis      string
	ModeratorAggregation string
	DebateResolution     string
	ConversationContext  string
	CurrentDate          string
}

// Oracle is the supervisor's external decision maker.
type Oracle interface {
	Decide(ctx context.Context, req OracleRequest) (*domain.SupervisorAnalysis, error)
}
