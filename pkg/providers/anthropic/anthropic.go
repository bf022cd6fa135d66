// Package anthropic implements the analysis provider and decision oracle
// on the Anthropic Claude API. Structured outputs are requested as JSON
// in the prompt and decoded from the reply text.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/providers/prompt"
	"github.com/refinehq/refine/pkg/ports"
)

// DefaultModel is used when the config names no model.
const DefaultModel = "claude-sonnet-4-20250514"

const (
	defaultMaxTokens  = 4096
	defaultMaxRetries = 2
)

// Config for the Anthropic backend.
type Config struct {
	APIKey     string
	Model      string
	MaxTokens  int
	MaxRetries int
	Logger     *slog.Logger
}

// Client talks to the Anthropic API. It implements both the provider and
// the oracle boundary.
type Client struct {
	client     anthropic.Client
	model      string
	maxTokens  int
	maxRetries int
	log        *slog.Logger
}

// New creates an Anthropic-backed client. An empty API key falls back to
// the ANTHROPIC_API_KEY environment variable.
func New(cfg Config) *Client {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		client:     anthropic.NewClient(opts...),
		model:      model,
		maxTokens:  maxTokens,
		maxRetries: retries,
		log:        log,
	}
}

func (c *Client) complete(ctx context.Context, text string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("anthropic call retrying", "attempt", attempt, "err", lastErr)
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		resp, err := c.client.Messages.New(ctx, params)
		if err != nil {
			lastErr = err
			continue
		}
		var parts []string
		for i := range resp.Content {
			if resp.Content[i].Type == "text" {
				parts = append(parts, resp.Content[i].Text)
			}
		}
		reply := strings.Join(parts, "")
		if reply == "" {
			lastErr = fmt.Errorf("empty model reply")
			continue
		}
		return reply, nil
	}
	return "", lastErr
}

// completeJSON appends a JSON-only instruction, runs the prompt, and
// decodes the reply into out.
func (c *Client) completeJSON(ctx context.Context, text, shape string, out any) error {
	text = fmt.Sprintf("%s\n\nRespond with a single JSON object of the form %s and nothing else.", text, shape)
	reply, err := c.complete(ctx, text)
	if err != nil {
		return err
	}
	raw := extractJSON(reply)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

// Decide implements ports.Oracle.
func (c *Client) Decide(ctx context.Context, req ports.OracleRequest) (*domain.SupervisorAnalysis, error) {
	var out domain.SupervisorAnalysis
	shape := `{"next_agent": "domain_expert|ux_ui_specialist|technical_architect|revenue_model_analyst|moderator|supervisor", "decision": "continue|end|debate", "reasoning": "...", "confidence_score": 0.0, "estimated_completion_steps": 0}`
	if err := c.completeJSON(ctx, prompt.Supervisor(req), shape, &out); err != nil {
		return nil, err
	}
	out.Decision = domain.Decision(strings.ToLower(string(out.Decision)))
	out.NextAgent = domain.AgentType(strings.ToLower(string(out.NextAgent)))
	return &out, nil
}

// ClassifyQuery implements ports.Provider.
func (c *Client) ClassifyQuery(ctx context.Context, req ports.AnalysisRequest) (*domain.Classification, error) {
	var out domain.Classification
	shape := `{"query_type": "domain|ux_ui|technical|revenue|general", "confidence_score": 0.0, "reasoning": "..."}`
	if err := c.completeJSON(ctx, prompt.Classification(req), shape, &out); err != nil {
		return nil, err
	}
	out.QueryType = domain.QueryType(strings.ToLower(string(out.QueryType)))
	return &out, nil
}

// AnalyzeDomain implements ports.Provider.
func (c *Client) AnalyzeDomain(ctx context.Context, req ports.AnalysisRequest) (*domain.DomainAnalysisResult, error) {
	var out domain.DomainAnalysisResult
	shape := `{"domain_analysis": "...", "domain_requirements": ["..."], "domain_concerns": ["..."], "priority_level": "..."}`
	if err := c.completeJSON(ctx, prompt.DomainExpert(req), shape, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeUX implements ports.Provider.
func (c *Client) AnalyzeUX(ctx context.Context, req ports.AnalysisRequest) (*domain.UXAnalysisResult, error) {
	var out domain.UXAnalysisResult
	shape := `{"ux_analysis": "...", "ui_requirements": ["..."], "user_experience_concerns": ["..."], "accessibility_requirements": ["..."]}`
	if err := c.completeJSON(ctx, prompt.UXSpecialist(req), shape, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTechnical implements ports.Provider.
func (c *Client) AnalyzeTechnical(ctx context.Context, req ports.AnalysisRequest) (*domain.TechnicalAnalysisResult, error) {
	var out domain.TechnicalAnalysisResult
	shape := `{"technical_analysis": "...", "technical_requirements": ["..."], "technical_concerns": ["..."], "scalability_considerations": ["..."]}`
	if err := c.completeJSON(ctx, prompt.TechnicalArchitect(req), shape, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeRevenue implements ports.Provider.
func (c *Client) AnalyzeRevenue(ctx context.Context, req ports.AnalysisRequest) (*domain.RevenueAnalysisResult, error) {
	var out domain.RevenueAnalysisResult
	shape := `{"revenue_analysis": "...", "revenue_requirements": ["..."], "revenue_concerns": ["..."], "monetization_strategies": ["..."], "pricing_considerations": ["..."]}`
	if err := c.completeJSON(ctx, prompt.RevenueAnalyst(req), shape, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeDebate implements ports.Provider.
func (c *Client) AnalyzeDebate(ctx context.Context, req ports.DebateRequest) (*domain.DebateAnalysisResult, error) {
	var out domain.DebateAnalysisResult
	shape := `{"debate_category": "domain_expert|ux_ui_specialist|technical_architect|revenue_model_analyst|moderator", "routing_decision": "...", "urgency_level": "...", "estimated_resolution_time": "..."}`
	if err := c.completeJSON(ctx, prompt.Debate(req), shape, &out); err != nil {
		return nil, err
	}
	out.DebateCategory = domain.DebateCategory(strings.ToLower(string(out.DebateCategory)))
	return &out, nil
}

// Aggregate implements ports.Provider.
func (c *Client) Aggregate(ctx context.Context, req ports.ModeratorRequest) (*domain.ModeratorAggregationResult, error) {
	var out domain.ModeratorAggregationResult
	shape := `{"aggregated_requirements": ["..."], "conflict_resolution": "...", "final_recommendations": ["..."], "implementation_priority": ["..."]}`
	if err := c.completeJSON(ctx, prompt.Moderator(req), shape, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Finalize implements ports.Provider.
func (c *Client) Finalize(ctx context.Context, req ports.FinalizeRequest) (string, error) {
	return c.complete(ctx, prompt.FinalAnswer(req))
}
