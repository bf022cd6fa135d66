// Package gemini implements the analysis provider and decision oracle on
// the Google Gemini API. All calls request structured JSON output pinned
// to a response schema.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/providers/prompt"
	"github.com/refinehq/refine/pkg/ports"
)

// DefaultModel is used when the config names no model.
const DefaultModel = "gemini-2.0-flash"

// Node temperatures. Control-flow calls run cold, specialist analyses
// run warm.
const (
	tempControl    float32 = 0.3
	tempSpecialist float32 = 0.7
	tempModeration float32 = 0.5
)

const defaultMaxRetries = 2

// Config for the Gemini backend.
type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
	Logger     *slog.Logger
}

// Client talks to the Gemini API. It implements both the provider and
// the oracle boundary.
type Client struct {
	genai      *genai.Client
	model      string
	maxRetries int
	log        *slog.Logger
}

// New creates a Gemini-backed client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{genai: gc, model: model, maxRetries: retries, log: log}, nil
}

// generateJSON runs one prompt and decodes the schema-pinned JSON reply
// into out, retrying transient failures.
func (c *Client) generateJSON(ctx context.Context, text string, temperature float32, schema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	raw, err := c.generate(ctx, text, cfg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, text string, cfg *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("gemini call retrying", "attempt", attempt, "err", lastErr)
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
		if err != nil {
			lastErr = err
			continue
		}
		reply := resp.Text()
		if reply == "" {
			lastErr = fmt.Errorf("empty model reply")
			continue
		}
		return reply, nil
	}
	return "", lastErr
}

// Decide implements ports.Oracle.
func (c *Client) Decide(ctx context.Context, req ports.OracleRequest) (*domain.SupervisorAnalysis, error) {
	var out domain.SupervisorAnalysis
	if err := c.generateJSON(ctx, prompt.Supervisor(req), tempControl, supervisorSchema, &out); err != nil {
		return nil, err
	}
	// Prompts spell verdicts uppercase; state uses lowercase ids.
	out.Decision = domain.Decision(strings.ToLower(string(out.Decision)))
	out.NextAgent = domain.AgentType(strings.ToLower(string(out.NextAgent)))
	return &out, nil
}

// ClassifyQuery implements ports.Provider.
func (c *Client) ClassifyQuery(ctx context.Context, req ports.AnalysisRequest) (*domain.Classification, error) {
	var out domain.Classification
	if err := c.generateJSON(ctx, prompt.Classification(req), tempControl, classificationSchema, &out); err != nil {
		return nil, err
	}
	out.QueryType = domain.QueryType(strings.ToLower(string(out.QueryType)))
	return &out, nil
}

// AnalyzeDomain implements ports.Provider.
func (c *Client) AnalyzeDomain(ctx context.Context, req ports.AnalysisRequest) (*domain.DomainAnalysisResult, error) {
	var out domain.DomainAnalysisResult
	if err := c.generateJSON(ctx, prompt.DomainExpert(req), tempSpecialist, domainSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeUX implements ports.Provider.
func (c *Client) AnalyzeUX(ctx context.Context, req ports.AnalysisRequest) (*domain.UXAnalysisResult, error) {
	var out domain.UXAnalysisResult
	if err := c.generateJSON(ctx, prompt.UXSpecialist(req), tempSpecialist, uxSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTechnical implements ports.Provider.
func (c *Client) AnalyzeTechnical(ctx context.Context, req ports.AnalysisRequest) (*domain.TechnicalAnalysisResult, error) {
	var out domain.TechnicalAnalysisResult
	if err := c.generateJSON(ctx, prompt.TechnicalArchitect(req), tempSpecialist, technicalSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeRevenue implements ports.Provider.
func (c *Client) AnalyzeRevenue(ctx context.Context, req ports.AnalysisRequest) (*domain.RevenueAnalysisResult, error) {
	var out domain.RevenueAnalysisResult
	if err := c.generateJSON(ctx, prompt.RevenueAnalyst(req), tempSpecialist, revenueSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeDebate implements ports.Provider.
func (c *Client) AnalyzeDebate(ctx context.Context, req ports.DebateRequest) (*domain.DebateAnalysisResult, error) {
	var out domain.DebateAnalysisResult
	if err := c.generateJSON(ctx, prompt.Debate(req), tempModeration, debateSchema, &out); err != nil {
		return nil, err
	}
	out.DebateCategory = domain.DebateCategory(strings.ToLower(string(out.DebateCategory)))
	return &out, nil
}

// Aggregate implements ports.Provider.
func (c *Client) Aggregate(ctx context.Context, req ports.ModeratorRequest) (*domain.ModeratorAggregationResult, error) {
	var out domain.ModeratorAggregationResult
	if err := c.generateJSON(ctx, prompt.Moderator(req), tempModeration, moderatorSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Finalize implements ports.Provider. The final answer is free-form
// prose, not schema-pinned.
func (c *Client) Finalize(ctx context.Context, req ports.FinalizeRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(tempControl),
	}
	return c.generate(ctx, prompt.FinalAnswer(req), cfg)
}
