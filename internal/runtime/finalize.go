package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// finalize generates the final answer and marks the run complete. It is
// the only node allowed to set Complete.
func (e *Engine) finalize(ctx context.Context, s *domain.State) (*domain.Delta, error) {
	answer, err := e.provider.Finalize(ctx, ports.FinalizeRequest{
		Query:       s.UserQuery,
		Aggregation: orPlaceholder(s.ModeratorAggregation, "No aggregation available"),
		CurrentDate: currentDate(e.now()),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.NodeFinalize, "final_answer", err)
	}

	return &domain.Delta{
		FinalAnswer: domain.Ptr(answer),
		Complete:    domain.Ptr(true),
		Messages:    []string{answer},
		History: []domain.HistoryEntry{{
			Step:                 s.CurrentStep,
			Agent:                domain.HistoryAgentFinalizer,
			Timestamp:            e.now(),
			FinalAnswerGenerated: true,
		}},
	}, nil
}

// synthesizeFinal assembles a deterministic answer from whatever the run
// produced. Used when the budget expires and the finalize provider is
// unavailable too; the run still terminates with a non-empty answer.
func (e *Engine) synthesizeFinal(s *domain.State) *domain.Delta {
	var b strings.Builder
	fmt.Fprintf(&b, "Partial requirements summary for: %s\n", s.UserQuery)

	sections := []struct {
		title string
		body  string
	}{
		{"Domain Analysis", s.DomainAnalysis},
		{"UX/UI Analysis", s.UXAnalysis},
		{"Technical Analysis", s.TechnicalAnalysis},
		{"Revenue Analysis", s.RevenueAnalysis},
		{"Moderator Aggregation", s.ModeratorAggregation},
		{"Debate Resolution", s.DebateResolution},
	}
	wrote := false
	for _, sec := range sections {
		if sec.body == "" {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n%s\n", sec.title, sec.body)
		wrote = true
	}
	if !wrote {
		b.WriteString("\nThe analysis budget was exhausted before any specialist completed. Please retry with a narrower query.\n")
	}
	answer := strings.TrimSpace(b.String())

	return &domain.Delta{
		FinalAnswer: domain.Ptr(answer),
		Complete:    domain.Ptr(true),
		Messages:    []string{answer},
		History: []domain.HistoryEntry{{
			Step:                 s.CurrentStep,
			Agent:                domain.HistoryAgentFinalizer,
			Timestamp:            e.now(),
			FinalAnswerGenerated: true,
		}},
	}
}
