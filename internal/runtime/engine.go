package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/internal/metrics"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

const (
	defaultHistoryLimit  = 5
	defaultFinalizeGrace = 10 * time.Second
)

// Options configures a single engine instance.
type Options struct {
	// Store persists conversation snapshots. Nil disables persistence.
	Store ports.ConversationStore

	// Logger defaults to a no-op logger.
	Logger *slog.Logger

	// Metrics defaults to a no-op sink.
	Metrics *metrics.Metrics

	// MaxSteps bounds supervisor invocations per run. Values below 1
	// fall back to domain.DefaultMaxSteps.
	MaxSteps int

	// RunBudget is the wall-clock limit per run. Zero disables it.
	RunBudget time.Duration

	// FinalizeGrace bounds the forced-finalize provider call after the
	// budget expires.
	FinalizeGrace time.Duration

	// HistoryLimit is the number of prior snapshots fed to the oracle.
	HistoryLimit int
}

// Engine drives one node at a time: execute, merge the delta, route.
// State never escapes mid-run, so a run is single-threaded by
// construction; concurrency lives above the engine, one run per
// goroutine.
type Engine struct {
	provider ports.Provider
	oracle   ports.Oracle
	store    ports.ConversationStore
	log      *slog.Logger
	metrics  *metrics.Metrics

	maxSteps      int
	runBudget     time.Duration
	finalizeGrace time.Duration
	historyLimit  int

	now func() time.Time
}

// NewEngine creates an engine with the given boundaries.
func NewEngine(provider ports.Provider, oracle ports.Oracle, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	maxSteps := opts.MaxSteps
	if maxSteps < 1 {
		maxSteps = domain.DefaultMaxSteps
	}
	grace := opts.FinalizeGrace
	if grace <= 0 {
		grace = defaultFinalizeGrace
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Engine{
		provider:      provider,
		oracle:        oracle,
		store:         opts.Store,
		log:           log,
		metrics:       opts.Metrics,
		maxSteps:      maxSteps,
		runBudget:     opts.RunBudget,
		finalizeGrace: grace,
		historyLimit:  historyLimit,
		now:           time.Now,
	}
}

// Run executes one refinement run to termination.
func (e *Engine) Run(ctx context.Context, req domain.RunRequest) (*domain.State, error) {
	return e.RunStream(ctx, req, nil)
}

// RunStream executes one refinement run, delivering a progress event to
// sink after every committed node. A nil sink disables streaming.
//
// Termination is guaranteed: the step limit forces the finalize node
// regardless of oracle behavior, and the wall-clock budget forces a
// best-effort finalize with whatever analyses exist.
func (e *Engine) RunStream(ctx context.Context, req domain.RunRequest, sink EventSink) (*domain.State, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	start := e.now()

	state := domain.NewState(req.ThreadID, req.Query, e.maxSteps)
	if hint := domain.QueryType(req.QueryTypeHint); validQueryType(hint) {
		state.QueryType = hint
	}
	state.DebateContent = req.DebateContent
	if req.DebateContent != "" {
		state.DebateCategory = domain.DebateModerator
	}

	runCtx := ctx
	if e.runBudget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.runBudget)
		defer cancel()
	}

	e.log.Info("run started",
		"thread_id", state.ThreadID,
		"max_steps", state.MaxSteps,
		"debate", state.DebateContent != "")

	current := domain.NodeClassify
	for {
		delta, err := e.execute(runCtx, current, state)
		if err != nil {
			// Budget exhaustion mid-node forces a finalize instead of a
			// failure, even when the finalize call itself was cut off:
			// finishForced retries it once on a detached grace context.
			// A caller cancellation stays an error.
			if runCtx.Err() != nil && ctx.Err() == nil {
				return e.finishForced(state, start, sink, current), nil
			}
			e.log.Error("run failed", "node", current, "err", err)
			e.metrics.RunFinished(metrics.OutcomeFailed, e.now().Sub(start).Seconds())
			return nil, err
		}
		state = delta.Apply(state)
		if sink != nil {
			if ev, ok := eventFor(current, state); ok {
				sink(ev)
			}
		}
		if savesAfter(current) {
			e.save(runCtx, state)
		}

		if current == domain.NodeFinalize {
			outcome := metrics.OutcomeCompleted
			if state.Partial() {
				outcome = metrics.OutcomePartial
			}
			total := e.now().Sub(start).Seconds()
			e.metrics.RunFinished(outcome, total)
			e.log.Info("run finished",
				"thread_id", state.ThreadID,
				"outcome", outcome,
				"steps", state.CurrentStep,
				"seconds", total)
			return state, nil
		}

		// Classification always hands off to the supervisor.
		if current == domain.NodeClassify {
			current = domain.NodeSupervisor
			continue
		}
		if runCtx.Err() != nil && ctx.Err() == nil {
			return e.finishForced(state, start, sink, current), nil
		}
		current = Route(state)
	}
}

func (e *Engine) execute(ctx context.Context, node domain.NodeID, s *domain.State) (*domain.Delta, error) {
	start := e.now()
	var (
		delta *domain.Delta
		err   error
	)
	switch node {
	case domain.NodeClassify:
		delta, err = e.classify(ctx, s)
	case domain.NodeSupervisor:
		delta, err = e.supervise(ctx, s)
	case domain.NodeDomainExpert:
		delta, err = e.domainExpert(ctx, s)
	case domain.NodeUXUI:
		delta, err = e.uxSpecialist(ctx, s)
	case domain.NodeTechnical:
		delta, err = e.technicalArchitect(ctx, s)
	case domain.NodeRevenue:
		delta, err = e.revenueAnalyst(ctx, s)
	case domain.NodeDebateAnalyzer:
		delta, err = e.analyzeDebate(ctx, s)
	case domain.NodeModerator:
		delta, err = e.moderate(ctx, s)
	case domain.NodeFinalize:
		delta, err = e.finalize(ctx, s)
	}
	if err != nil {
		return nil, err
	}
	elapsed := e.now().Sub(start).Seconds()
	delta.ProcessingTime = elapsed
	e.metrics.ObserveNode(string(node), elapsed)
	e.log.Debug("node executed", "node", node, "seconds", elapsed)
	return delta, nil
}

// finishForced terminates a budget-exceeded run: one finalize attempt on
// a detached grace context, then a local synthesis fallback.
func (e *Engine) finishForced(s *domain.State, start time.Time, sink EventSink, at domain.NodeID) *domain.State {
	e.log.Warn("run budget exhausted, forcing finalize",
		"thread_id", s.ThreadID, "node", at, "steps", s.CurrentStep)

	graceCtx, cancel := context.WithTimeout(context.Background(), e.finalizeGrace)
	defer cancel()

	delta, err := e.finalize(graceCtx, s)
	if err != nil {
		e.log.Warn("finalize provider unavailable, synthesizing locally", "err", err)
		delta = e.synthesizeFinal(s)
	}
	s = delta.Apply(s)
	if sink != nil {
		if ev, ok := eventFor(domain.NodeFinalize, s); ok {
			sink(ev)
		}
	}
	e.save(graceCtx, s)

	e.metrics.RunFinished(metrics.OutcomeBudget, e.now().Sub(start).Seconds())
	return s
}

// save persists a snapshot best-effort. Failures are logged and counted,
// never propagated.
func (e *Engine) save(ctx context.Context, s *domain.State) {
	if e.store == nil || s.ThreadID == "" {
		return
	}
	if err := e.store.Save(ctx, s.ThreadID, domain.SnapshotOf(s, e.now())); err != nil {
		e.metrics.SaveFailure()
		e.log.Warn("conversation save failed", "thread_id", s.ThreadID, "err", err)
	}
}

// savesAfter reports whether a snapshot is persisted after the node
// commits. Supervisor verdicts and specialist analyses are the durable
// checkpoints.
func savesAfter(node domain.NodeID) bool {
	switch node {
	case domain.NodeSupervisor, domain.NodeDomainExpert, domain.NodeUXUI,
		domain.NodeTechnical, domain.NodeRevenue:
		return true
	}
	return false
}

func validQueryType(qt domain.QueryType) bool {
	switch qt {
	case domain.QueryDomain, domain.QueryUXUI, domain.QueryTechnical,
		domain.QueryRevenue, domain.QueryGeneral:
		return true
	}
	return false
}
