// Package scripted implements the provider and oracle boundaries from a
// YAML scenario file. It exists for demos, offline development, and
// transport-level tests where real model calls are unwanted.
package scripted

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// Operation names usable in a scenario's fail map.
const (
	OpSupervisor = "supervisor"
	OpClassify   = "classify"
	OpDomain     = "domain"
	OpUX         = "ux"
	OpTechnical  = "technical"
	OpRevenue    = "revenue"
	OpDebate     = "debate"
	OpModerator  = "moderator"
	OpFinalize   = "finalize"
)

// Scenario scripts every boundary call. Nil sections fall back to canned
// defaults, so a minimal scenario (or none at all) still yields a
// complete run.
type Scenario struct {
	Classification *domain.Classification             `mapstructure:"classification"`
	Verdicts       []*domain.SupervisorAnalysis       `mapstructure:"verdicts"`
	Domain         *domain.DomainAnalysisResult       `mapstructure:"domain"`
	UX             *domain.UXAnalysisResult           `mapstructure:"ux"`
	Technical      *domain.TechnicalAnalysisResult    `mapstructure:"technical"`
	Revenue        *domain.RevenueAnalysisResult      `mapstructure:"revenue"`
	Debate         *domain.DebateAnalysisResult       `mapstructure:"debate"`
	Moderator      *domain.ModeratorAggregationResult `mapstructure:"moderator"`
	FinalAnswer    string                             `mapstructure:"final_answer"`
	Latency        time.Duration                      `mapstructure:"latency"`
	Fail           map[string]string                  `mapstructure:"fail"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scripted: read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML scenario bytes.
func Parse(raw []byte) (*Scenario, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("scripted: parse scenario: %w", err)
	}
	var sc Scenario
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &sc,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(generic); err != nil {
		return nil, fmt.Errorf("scripted: decode scenario: %w", err)
	}
	return &sc, nil
}

// Provider replays a scenario. It implements both the provider and the
// oracle boundary.
type Provider struct {
	mu       sync.Mutex
	scenario Scenario
	verdict  int
}

// New creates a provider from a scenario. A nil scenario plays defaults.
func New(sc *Scenario) *Provider {
	p := &Provider{}
	if sc != nil {
		p.scenario = *sc
	}
	return p
}

func (p *Provider) stall(ctx context.Context, op string) error {
	if p.scenario.Latency > 0 {
		select {
		case <-time.After(p.scenario.Latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if msg, ok := p.scenario.Fail[op]; ok {
		return fmt.Errorf("scripted: %s", msg)
	}
	return nil
}

// Decide implements ports.Oracle. Scenario verdicts play in order and
// the last one repeats; with no verdicts at all, one moderator pass is
// followed by end.
func (p *Provider) Decide(ctx context.Context, req ports.OracleRequest) (*domain.SupervisorAnalysis, error) {
	if err := p.stall(ctx, OpSupervisor); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	verdicts := p.scenario.Verdicts
	if len(verdicts) == 0 {
		verdicts = []*domain.SupervisorAnalysis{
			{NextAgent: domain.AgentModerator, Decision: domain.DecisionContinue, Reasoning: "aggregate available analyses"},
			{NextAgent: domain.AgentSupervisor, Decision: domain.DecisionEnd, Reasoning: "analysis complete"},
		}
	}
	i := p.verdict
	if i >= len(verdicts) {
		i = len(verdicts) - 1
	}
	p.verdict++
	v := *verdicts[i]
	return &v, nil
}

// ClassifyQuery implements ports.Provider.
func (p *Provider) ClassifyQuery(ctx context.Context, req ports.AnalysisRequest) (*domain.Classification, error) {
	if err := p.stall(ctx, OpClassify); err != nil {
		return nil, err
	}
	if p.scenario.Classification != nil {
		c := *p.scenario.Classification
		return &c, nil
	}
	return &domain.Classification{
		QueryType:       domain.QueryGeneral,
		ConfidenceScore: 0.5,
		Reasoning:       "scripted default classification",
	}, nil
}

// AnalyzeDomain implements ports.Provider.
func (p *Provider) AnalyzeDomain(ctx context.Context, req ports.AnalysisRequest) (*domain.DomainAnalysisResult, error) {
	if err := p.stall(ctx, OpDomain); err != nil {
		return nil, err
	}
	if p.scenario.Domain != nil {
		r := *p.scenario.Domain
		return &r, nil
	}
	return &domain.DomainAnalysisResult{
		DomainAnalysis:     "Scripted domain analysis for: " + req.Query,
		DomainRequirements: []string{"document the core business workflow"},
		DomainConcerns:     []string{"regulatory scope is unconfirmed"},
		PriorityLevel:      "medium",
	}, nil
}

// AnalyzeUX implements ports.Provider.
func (p *Provider) AnalyzeUX(ctx context.Context, req ports.AnalysisRequest) (*domain.UXAnalysisResult, error) {
	if err := p.stall(ctx, OpUX); err != nil {
		return nil, err
	}
	if p.scenario.UX != nil {
		r := *p.scenario.UX
		return &r, nil
	}
	return &domain.UXAnalysisResult{
		UXAnalysis:                "Scripted UX analysis for: " + req.Query,
		UIRequirements:            []string{"mobile-first layout"},
		UserExperienceConcerns:    []string{"onboarding friction"},
		AccessibilityRequirements: []string{"WCAG 2.1 AA compliance"},
	}, nil
}

// AnalyzeTechnical implements ports.Provider.
func (p *Provider) AnalyzeTechnical(ctx context.Context, req ports.AnalysisRequest) (*domain.TechnicalAnalysisResult, error) {
	if err := p.stall(ctx, OpTechnical); err != nil {
		return nil, err
	}
	if p.scenario.Technical != nil {
		r := *p.scenario.Technical
		return &r, nil
	}
	return &domain.TechnicalAnalysisResult{
		TechnicalAnalysis:         "Scripted technical analysis for: " + req.Query,
		TechnicalRequirements:     []string{"stateless API tier"},
		TechnicalConcerns:         []string{"data migration risk"},
		ScalabilityConsiderations: []string{"horizontal scaling behind a load balancer"},
	}, nil
}

// AnalyzeRevenue implements ports.Provider.
func (p *Provider) AnalyzeRevenue(ctx context.Context, req ports.AnalysisRequest) (*domain.RevenueAnalysisResult, error) {
	if err := p.stall(ctx, OpRevenue); err != nil {
		return nil, err
	}
	if p.scenario.Revenue != nil {
		r := *p.scenario.Revenue
		return &r, nil
	}
	return &domain.RevenueAnalysisResult{
		RevenueAnalysis:        "Scripted revenue analysis for: " + req.Query,
		RevenueRequirements:    []string{"billing integration"},
		RevenueConcerns:        []string{"price sensitivity untested"},
		MonetizationStrategies: []string{"tiered subscriptions"},
		PricingConsiderations:  []string{"annual plan discount"},
	}, nil
}

// AnalyzeDebate implements ports.Provider.
func (p *Provider) AnalyzeDebate(ctx context.Context, req ports.DebateRequest) (*domain.DebateAnalysisResult, error) {
	if err := p.stall(ctx, OpDebate); err != nil {
		return nil, err
	}
	if p.scenario.Debate != nil {
		r := *p.scenario.Debate
		return &r, nil
	}
	return &domain.DebateAnalysisResult{
		DebateCategory:          domain.DebateModerator,
		RoutingDecision:         "multiple perspectives needed",
		UrgencyLevel:            "medium",
		EstimatedResolutionTime: "under 2 minutes",
	}, nil
}

// Aggregate implements ports.Provider.
func (p *Provider) Aggregate(ctx context.Context, req ports.ModeratorRequest) (*domain.ModeratorAggregationResult, error) {
	if err := p.stall(ctx, OpModerator); err != nil {
		return nil, err
	}
	if p.scenario.Moderator != nil {
		r := *p.scenario.Moderator
		return &r, nil
	}
	return &domain.ModeratorAggregationResult{
		AggregatedRequirements: []string{"consolidated requirement set"},
		ConflictResolution:     "",
		FinalRecommendations:   []string{"proceed to a scoped MVP"},
		ImplementationPriority: []string{"core workflow first"},
	}, nil
}

// Finalize implements ports.Provider.
func (p *Provider) Finalize(ctx context.Context, req ports.FinalizeRequest) (string, error) {
	if err := p.stall(ctx, OpFinalize); err != nil {
		return "", err
	}
	if p.scenario.FinalAnswer != "" {
		return p.scenario.FinalAnswer, nil
	}
	return "Scripted final answer for: " + req.Query, nil
}
