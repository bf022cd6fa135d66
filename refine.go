package refine

import (
	"context"
	"log/slog"
	"time"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/internal/metrics"
	"github.com/refinehq/refine/internal/runtime"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// Version is the library and CLI release version.
const Version = "0.1.0"

// Client is the high-level entry point for the refine library. It wraps
// the internal runtime and reports full-run timings on its responses.
type Client struct {
	runtime *runtime.Engine
	opts    runtime.Options
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithStore persists a snapshot after each supervisor and specialist step.
func WithStore(store ports.ConversationStore) Option {
	return func(c *Client) {
		c.opts.Store = store
	}
}

// WithLogger sets a structured logger for the workflow.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records node and run observations on the given collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.opts.Metrics = m
	}
}

// WithMaxSteps bounds the number of supervisor decisions per run.
func WithMaxSteps(n int) Option {
	return func(c *Client) {
		c.opts.MaxSteps = n
	}
}

// WithRunBudget bounds the wall-clock time of a run. When the budget
// expires mid-run the workflow finalizes with whatever analyses exist.
func WithRunBudget(d time.Duration) Option {
	return func(c *Client) {
		c.opts.RunBudget = d
	}
}

// WithFinalizeGrace sets the extra time granted to the final-answer
// model call after the run budget expires.
func WithFinalizeGrace(d time.Duration) Option {
	return func(c *Client) {
		c.opts.FinalizeGrace = d
	}
}

// WithHistoryLimit sets how many prior snapshots feed the supervisor's
// conversation context.
func WithHistoryLimit(n int) Option {
	return func(c *Client) {
		c.opts.HistoryLimit = n
	}
}

// New builds a Client around a specialist provider and a supervisor oracle.
// Both are usually the same backend value.
func New(provider ports.Provider, oracle ports.Oracle, opts ...Option) *Client {
	c := &Client{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	c.opts.Logger = c.logger
	c.runtime = runtime.NewEngine(provider, oracle, c.opts)
	return c
}

// Refine runs the workflow to completion and returns the refined
// requirements response.
func (c *Client) Refine(ctx context.Context, req domain.RunRequest) (*domain.RunResponse, error) {
	return c.RefineStream(ctx, req, nil)
}

// RefineStream runs the workflow and forwards node events to sink as they
// happen. A nil sink disables streaming.
func (c *Client) RefineStream(ctx context.Context, req domain.RunRequest, sink runtime.EventSink) (*domain.RunResponse, error) {
	start := c.now()
	state, err := c.runtime.RunStream(ctx, req, sink)
	if err != nil {
		return nil, err
	}
	return domain.ResponseFrom(state, c.now().Sub(start).Seconds()), nil
}

// Engine exposes the underlying runtime for adapters that drive it
// directly, such as the HTTP server.
func (c *Client) Engine() *runtime.Engine {
	return c.runtime
}
