package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refinehq/refine/internal/runtime"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// fakeProvider returns canned analyses and records which operations ran.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string

	queryType     domain.QueryType
	classifyErr   error
	domainErr     error
	finalizeErr   error
	delay         time.Duration
	finalizeDelay time.Duration

	domainCalls int
}

func (p *fakeProvider) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
}

func (p *fakeProvider) ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeProvider) wait(ctx context.Context) error {
	return waitFor(ctx, p.delay)
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakeProvider) ClassifyQuery(ctx context.Context, req ports.AnalysisRequest) (*domain.Classification, error) {
	p.record("classify")
	if p.classifyErr != nil {
		return nil, p.classifyErr
	}
	qt := p.queryType
	if qt == "" {
		qt = domain.QueryTechnical
	}
	return &domain.Classification{QueryType: qt, ConfidenceScore: 0.9, Reasoning: "keyword match"}, nil
}

func (p *fakeProvider) AnalyzeDomain(ctx context.Context, req ports.AnalysisRequest) (*domain.DomainAnalysisResult, error) {
	p.record("domain")
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if p.domainErr != nil {
		return nil, p.domainErr
	}
	p.mu.Lock()
	p.domainCalls++
	n := p.domainCalls
	p.mu.Unlock()
	return &domain.DomainAnalysisResult{
		DomainAnalysis:     fmt.Sprintf("domain take %d", n),
		DomainRequirements: []string{"comply with PCI DSS"},
		DomainConcerns:     []string{"chargeback exposure"},
		PriorityLevel:      "high",
	}, nil
}

func (p *fakeProvider) AnalyzeUX(ctx context.Context, req ports.AnalysisRequest) (*domain.UXAnalysisResult, error) {
	p.record("ux")
	return &domain.UXAnalysisResult{
		UXAnalysis:                "checkout must be three taps",
		UIRequirements:            []string{"responsive layout"},
		UserExperienceConcerns:    []string{"cart abandonment"},
		AccessibilityRequirements: []string{"WCAG 2.1 AA"},
	}, nil
}

func (p *fakeProvider) AnalyzeTechnical(ctx context.Context, req ports.AnalysisRequest) (*domain.TechnicalAnalysisResult, error) {
	p.record("technical")
	return &domain.TechnicalAnalysisResult{
		TechnicalAnalysis:         "event-driven checkout pipeline",
		TechnicalRequirements:     []string{"idempotent payment webhook"},
		TechnicalConcerns:         []string{"vendor lock-in"},
		ScalabilityConsiderations: []string{"shard by merchant"},
	}, nil
}

func (p *fakeProvider) AnalyzeRevenue(ctx context.Context, req ports.AnalysisRequest) (*domain.RevenueAnalysisResult, error) {
	p.record("revenue")
	return &domain.RevenueAnalysisResult{
		RevenueAnalysis:        "take rate plus subscriptions",
		RevenueRequirements:    []string{"usage metering"},
		RevenueConcerns:        []string{"race to the bottom on fees"},
		MonetizationStrategies: []string{"freemium"},
		PricingConsiderations:  []string{"annual discount"},
	}, nil
}

func (p *fakeProvider) AnalyzeDebate(ctx context.Context, req ports.DebateRequest) (*domain.DebateAnalysisResult, error) {
	p.record("debate")
	return &domain.DebateAnalysisResult{
		DebateCategory:          domain.DebateTechnical,
		RoutingDecision:         "route to technical architect",
		UrgencyLevel:            "high",
		EstimatedResolutionTime: "90 seconds",
	}, nil
}

func (p *fakeProvider) Aggregate(ctx context.Context, req ports.ModeratorRequest) (*domain.ModeratorAggregationResult, error) {
	p.record("aggregate")
	return &domain.ModeratorAggregationResult{
		AggregatedRequirements: []string{"ship the MVP checkout"},
		FinalRecommendations:   []string{"start with one payment provider"},
		ImplementationPriority: []string{"payments first"},
	}, nil
}

func (p *fakeProvider) Finalize(ctx context.Context, req ports.FinalizeRequest) (string, error) {
	p.record("finalize")
	if err := waitFor(ctx, p.finalizeDelay); err != nil {
		return "", err
	}
	if p.finalizeErr != nil {
		return "", p.finalizeErr
	}
	return "Refined requirements: build the checkout first.", nil
}

// fakeOracle replays scripted verdicts; the last verdict repeats forever.
type fakeOracle struct {
	mu       sync.Mutex
	verdicts []*domain.SupervisorAnalysis
	next     int
	requests []ports.OracleRequest
	err      error
}

func verdict(d domain.Decision, agent domain.AgentType) *domain.SupervisorAnalysis {
	return &domain.SupervisorAnalysis{
		NextAgent:       agent,
		Decision:        d,
		Reasoning:       fmt.Sprintf("%s via %s", d, agent),
		ConfidenceScore: 0.8,
	}
}

func (o *fakeOracle) Decide(ctx context.Context, req ports.OracleRequest) (*domain.SupervisorAnalysis, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, req)
	if o.err != nil {
		return nil, o.err
	}
	i := o.next
	if i >= len(o.verdicts) {
		i = len(o.verdicts) - 1
	}
	o.next++
	return o.verdicts[i], nil
}

// memStore is an append-only in-memory conversation store.
type memStore struct {
	mu    sync.Mutex
	snaps map[string][]*domain.Snapshot
}

func newMemStore() *memStore {
	return &memStore{snaps: map[string][]*domain.Snapshot{}}
}

func (s *memStore) Save(ctx context.Context, threadID string, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[threadID] = append(s.snaps[threadID], snap)
	return nil
}

func (s *memStore) History(ctx context.Context, threadID string, limit int) ([]*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, ok := s.snaps[threadID]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	var out []*domain.Snapshot
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *memStore) Clear(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[threadID]; !ok {
		return domain.ErrThreadNotFound
	}
	delete(s.snaps, threadID)
	return nil
}

func (s *memStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.snaps {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memStore) count(threadID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps[threadID])
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Save(context.Context, string, *domain.Snapshot) error { return errors.New("down") }
func (failingStore) History(context.Context, string, int) ([]*domain.Snapshot, error) {
	return nil, errors.New("down")
}
func (failingStore) Clear(context.Context, string) error    { return errors.New("down") }
func (failingStore) List(context.Context) ([]string, error) { return nil, errors.New("down") }

func historyAgents(s *domain.State) []string {
	agents := make([]string, len(s.History))
	for i, entry := range s.History {
		agents[i] = entry.Agent
	}
	return agents
}

func TestEngine_Run_EndToEnd(t *testing.T) {
	provider := &fakeProvider{queryType: domain.QueryTechnical}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentTechnical),
		verdict(domain.DecisionContinue, domain.AgentModerator),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Design a B2B invoicing platform",
	})
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.True(t, state.Complete)
	assert.Equal(t, "Refined requirements: build the checkout first.", state.FinalAnswer)
	assert.Equal(t, domain.QueryTechnical, state.QueryType)
	assert.NotEmpty(t, state.TechnicalAnalysis)
	assert.NotEmpty(t, state.ModeratorAggregation)
	assert.False(t, state.Partial())

	assert.Equal(t, []string{
		"classifier",
		"supervisor",
		"technical_architect",
		"supervisor",
		"moderator",
		"supervisor",
		"finalizer",
	}, historyAgents(state))

	// One entry per node execution, steps never decreasing.
	for i := 1; i < len(state.History); i++ {
		assert.GreaterOrEqual(t, state.History[i].Step, state.History[i-1].Step)
	}
	require.NotEmpty(t, state.Messages)
	assert.Equal(t, state.FinalAnswer, state.Messages[len(state.Messages)-1])
}

func TestEngine_Run_EmptyQuery(t *testing.T) {
	engine := runtime.NewEngine(&fakeProvider{}, &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}, runtime.Options{})

	_, err := engine.Run(context.Background(), domain.RunRequest{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestEngine_Run_QueryTypeHint(t *testing.T) {
	// Every value the CLI and MCP tool document must be accepted as a
	// pre-classification hint; anything else is ignored, not rejected.
	hints := []string{"domain", "ux_ui", "technical", "revenue", "general", "product_requirements", ""}
	for _, hint := range hints {
		t.Run("hint_"+hint, func(t *testing.T) {
			provider := &fakeProvider{queryType: domain.QueryRevenue}
			oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
				verdict(domain.DecisionEnd, domain.AgentSupervisor),
			}}
			engine := runtime.NewEngine(provider, oracle, runtime.Options{})

			state, err := engine.Run(context.Background(), domain.RunRequest{
				Query:         "Subscription tiers for a podcast host",
				QueryTypeHint: hint,
			})
			require.NoError(t, err)
			assert.True(t, state.Complete)
			// The classifier has the last word regardless of the hint.
			assert.Equal(t, domain.QueryRevenue, state.QueryType)
		})
	}
}

func TestEngine_Run_StepLimitForcesTermination(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{MaxSteps: 2})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Plan a telehealth scheduling product",
	})
	require.NoError(t, err)

	assert.True(t, state.Complete)
	assert.NotEmpty(t, state.FinalAnswer)
	assert.True(t, state.Partial(), "no moderator pass means a partial result")

	supervisorVisits := 0
	for _, entry := range state.History {
		if entry.Agent == "supervisor" {
			supervisorVisits++
		}
	}
	assert.Equal(t, 2, supervisorVisits)
	assert.Equal(t, "finalizer", state.History[len(state.History)-1].Agent)
}

func TestEngine_Run_OracleNeverEnds(t *testing.T) {
	// An oracle that keeps recommending the same specialist cannot keep
	// the run alive past the step limit.
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{MaxSteps: 10})

	done := make(chan struct{})
	var state *domain.State
	var err error
	go func() {
		state, err = engine.Run(context.Background(), domain.RunRequest{Query: "Refine a loyalty program"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not terminate")
	}
	require.NoError(t, err)
	assert.True(t, state.Complete)
	assert.NotEmpty(t, state.FinalAnswer)
	// The specialist block reflects the latest execution.
	assert.Contains(t, state.DomainAnalysis, fmt.Sprintf("domain take %d", provider.domainCalls))
}

func TestEngine_Run_DebateShortCircuit(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "There is a Controversy about our pricing page",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.QueryGeneral, state.QueryType)
	assert.Equal(t, domain.DebateModerator, state.DebateCategory)
	assert.NotContains(t, provider.ops(), "classify", "debate queries skip the classification provider")

	require.NotEmpty(t, state.History)
	first := state.History[0]
	assert.Equal(t, "classifier", first.Agent)
	assert.True(t, first.DebateShortCircuit)
}

func TestEngine_Run_DebateVerdictRouting(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionDebate, domain.AgentModerator),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query:         "Resolve the team dispute about the data model",
		DebateContent: "SQL versus document store for order history",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DebateTechnical, state.DebateCategory)
	assert.Contains(t, state.DebateResolution, "Routing Decision: route to technical architect")
	assert.Contains(t, historyAgents(state), "debate_analyzer")
	assert.True(t, state.Complete)
}

func TestEngine_Run_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{classifyErr: errors.New("model unavailable")}
	engine := runtime.NewEngine(provider, &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}, runtime.Options{})

	_, err := engine.Run(context.Background(), domain.RunRequest{Query: "Spec an expense tracker"})
	require.Error(t, err)

	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.NodeClassify, perr.Node)
}

func TestEngine_Run_StoreFailureIsNonFatal(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{Store: failingStore{}})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query:    "Draft requirements for a ticketing app",
		ThreadID: "thread-9",
	})
	require.NoError(t, err)
	assert.True(t, state.Complete)
}

func TestEngine_Run_SavesCheckpoints(t *testing.T) {
	store := newMemStore()
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentUXUI),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{Store: store})

	_, err := engine.Run(context.Background(), domain.RunRequest{
		Query:    "Improve onboarding for a budgeting app",
		ThreadID: "thread-42",
	})
	require.NoError(t, err)

	// Two supervisor verdicts plus one specialist analysis.
	assert.Equal(t, 3, store.count("thread-42"))
}

func TestEngine_Run_ConversationContextReachesOracle(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "thread-7", &domain.Snapshot{
		ThreadID:    "thread-7",
		UserQuery:   "older question",
		CurrentStep: 1,
		ActiveAgent: domain.AgentDomainExpert,
	}))
	require.NoError(t, store.Save(ctx, "thread-7", &domain.Snapshot{
		ThreadID:    "thread-7",
		UserQuery:   "newer question",
		CurrentStep: 2,
		ActiveAgent: domain.AgentUXUI,
	}))

	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{Store: store})

	_, err := engine.Run(ctx, domain.RunRequest{Query: "follow-up question", ThreadID: "thread-7"})
	require.NoError(t, err)

	require.NotEmpty(t, oracle.requests)
	got := oracle.requests[0].ConversationContext
	assert.Contains(t, got, "Previous Conversation Context:")
	assert.Contains(t, got, "newer question")
	assert.Contains(t, got, "older question")
	assert.Less(t, strings.Index(got, "newer question"), strings.Index(got, "older question"),
		"most recent snapshot comes first")
}

func TestEngine_Run_RepeatedSpecialistOverwrites(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Reassess compliance requirements",
	})
	require.NoError(t, err)

	assert.Contains(t, state.DomainAnalysis, "domain take 2")
	visits := 0
	for _, entry := range state.History {
		if entry.Agent == "domain_expert" {
			visits++
		}
	}
	assert.Equal(t, 2, visits, "both executions are ledgered even though the block is overwritten")
}

func TestEngine_RunStream_Events(t *testing.T) {
	provider := &fakeProvider{}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentRevenue),
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	var events []runtime.Event
	state, err := engine.RunStream(context.Background(), domain.RunRequest{
		Query: "Monetize a podcast hosting service",
	}, func(ev runtime.Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	assert.Equal(t, []string{
		runtime.EventSupervisorDecision,
		runtime.EventRevenueModelAnalyst,
		runtime.EventSupervisorDecision,
		runtime.EventFinalAnswer,
	}, types)
	assert.Equal(t, state.FinalAnswer, events[len(events)-1].Content)
}

func TestEngine_Run_BudgetForcesFinalize(t *testing.T) {
	provider := &fakeProvider{delay: 200 * time.Millisecond}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{
		RunBudget:     50 * time.Millisecond,
		FinalizeGrace: time.Second,
	})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Exhaustive analysis of a logistics platform",
	})
	require.NoError(t, err, "budget exhaustion terminates the run, it does not fail it")

	assert.True(t, state.Complete)
	assert.Equal(t, "Refined requirements: build the checkout first.", state.FinalAnswer)
}

func TestEngine_Run_BudgetWithDeadProviderSynthesizes(t *testing.T) {
	provider := &fakeProvider{
		delay:       200 * time.Millisecond,
		finalizeErr: errors.New("model unavailable"),
	}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{
		RunBudget:     50 * time.Millisecond,
		FinalizeGrace: time.Second,
	})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Exhaustive analysis of a logistics platform",
	})
	require.NoError(t, err)

	assert.True(t, state.Complete)
	assert.Contains(t, state.FinalAnswer, "Partial requirements summary")
}

func TestEngine_Run_BudgetExpiresDuringFinalize(t *testing.T) {
	provider := &fakeProvider{finalizeDelay: 300 * time.Millisecond}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionEnd, domain.AgentSupervisor),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{
		RunBudget:     100 * time.Millisecond,
		FinalizeGrace: time.Second,
	})

	state, err := engine.Run(context.Background(), domain.RunRequest{
		Query: "Exhaustive analysis of a logistics platform",
	})
	require.NoError(t, err, "a cut-off finalize call retries on the grace context")

	assert.True(t, state.Complete)
	assert.Equal(t, "Refined requirements: build the checkout first.", state.FinalAnswer)
}

func TestEngine_Run_CallerCancellationFails(t *testing.T) {
	provider := &fakeProvider{delay: time.Second}
	oracle := &fakeOracle{verdicts: []*domain.SupervisorAnalysis{
		verdict(domain.DecisionContinue, domain.AgentDomainExpert),
	}}
	engine := runtime.NewEngine(provider, oracle, runtime.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := engine.Run(ctx, domain.RunRequest{Query: "Spec a CRM"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
