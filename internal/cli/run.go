package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/refinehq/refine/internal/presentation/tui"
	"github.com/refinehq/refine/internal/runtime"
	"github.com/refinehq/refine/pkg/domain"
)

// RunOptions controls a one-shot refinement from the command line.
type RunOptions struct {
	Query         string
	ThreadID      string
	QueryType     string
	DebateContent string
	Stream        bool
	JSON          bool
}

var eventLabels = map[string]string{
	runtime.EventSupervisorDecision:   "Supervisor",
	runtime.EventDomainExpert:         "Domain Expert",
	runtime.EventUXUISpecialist:       "UX/UI Specialist",
	runtime.EventTechnicalArchitect:   "Technical Architect",
	runtime.EventRevenueModelAnalyst:  "Revenue Model Analyst",
	runtime.EventModeratorAggregation: "Moderator",
	runtime.EventDebateAnalysis:       "Debate Analyzer",
}

// RunQuery executes one refinement and writes the result to out.
func RunQuery(ctx context.Context, app *App, opts RunOptions, out io.Writer) error {
	query, err := runtime.SanitizeQuery(opts.Query)
	if err != nil {
		return err
	}

	req := domain.RunRequest{
		Query:         query,
		QueryTypeHint: opts.QueryType,
		DebateContent: opts.DebateContent,
		ThreadID:      opts.ThreadID,
	}

	var sink runtime.EventSink
	if opts.Stream && !opts.JSON {
		sink = func(ev runtime.Event) {
			label, ok := eventLabels[ev.Type]
			if !ok {
				return
			}
			fmt.Fprintf(out, "[%s]\n%s\n\n", label, ev.Content)
		}
	}

	resp, err := app.Client.RefineStream(ctx, req, sink)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	render := tui.NewRenderer()
	answer, err := render(resp.Answer)
	if err != nil {
		answer = resp.Answer
	}
	fmt.Fprintln(out, answer)
	fmt.Fprintf(out, "(query type: %s, agent actions: %d, %.1fs)\n",
		resp.QueryType, len(resp.History), resp.ProcessingTime)
	return nil
}
