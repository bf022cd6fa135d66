package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// supervise asks the oracle for the next verdict. It is the only node
// that advances the step counter, which is what bounds the run.
func (e *Engine) supervise(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	result, err := e.oracle.Decide(ctx, ports.OracleRequest{
		Query:                s.UserQuery,
		CurrentStep:          s.CurrentStep,
		MaxSteps:             s.MaxSteps,
		History:              s.History,
		DomainAnalysis:       s.DomainAnalysis,
		UXAnalysis:           s.UXAnalysis,
		TechnicalAnalysis:    s.TechnicalAnalysis,
		RevenueAnalysis:      s.RevenueAnalysis,
		ModeratorAggregation: s.ModeratorAggregation,
		DebateResolution:     s.DebateResolution,
		ConversationContext:  e.conversationContext(ctx, s.ThreadID),
		CurrentDate:          currentDate(e.now()),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeSupervisor, "supervisor_decision", err)
	}

	return &domain.Delta{
		ActiveAgent:         domain.Ptr(result.NextAgent),
		SupervisorDecision:  domain.Ptr(result.Decision),
		SupervisorReasoning: domain.Ptr(result.Reasoning),
		CurrentStep:         domain.Ptr(s.CurrentStep + 1),
		History: []domain.HistoryEntry{{
			Step:      s.CurrentStep,
			Agent:     string(domain.AgentSupervisor),
			Timestamp: e.now(),
			Decision:  result.Decision,
			NextAgent: result.NextAgent,
			Reasoning: result.Reasoning,
		}},
	}, nil
}

// conversationContext renders prior-run context for the oracle prompt.
// Lookups are best-effort: any store failure yields an empty context and
// a warning, never a run failure.
func (e *Engine) conversationContext(ctx context.Context, threadID string) string {
	if e.store == nil || threadID == "" {
		return ""
	}
	snaps, err := e.store.History(ctx, threadID, e.historyLimit)
	if err != nil {
		if !errors.Is(err, domain.ErrThreadNotFound) {
			e.log.Warn("conversation history lookup failed", "thread_id", threadID, "err", err)
		}
		return ""
	}
	if len(snaps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Previous Conversation Context:\n")
	for _, snap := range snaps {
		agent := string(snap.ActiveAgent)
		if agent == "" {
			agent = "N/A"
		}
		fmt.Fprintf(&b, "- Step %d: %s (Agent: %s)\n", snap.CurrentStep, snap.UserQuery, agent)
	}
	return b.String()
}
