// Package mcp exposes the refinement engine as an MCP server so agent
// hosts can call it as a tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/refinehq/refine/internal/logging"
	"github.com/refinehq/refine/internal/runtime"
	"github.com/refinehq/refine/pkg/domain"
	"github.com/refinehq/refine/pkg/ports"
)

// Engine is the workflow core behind the refine_requirements tool.
type Engine interface {
	Run(ctx context.Context, req domain.RunRequest) (*domain.State, error)
}

// Server wraps the engine and exposes it over MCP.
type Server struct {
	engine    Engine
	store     ports.ConversationStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the conversation-history tools.
func WithStore(store ports.ConversationStore) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the tool-call logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates an MCP server around the engine.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("refine-mcp", strings.TrimSpace(version))
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	refineTool := mcp.NewTool("refine_requirements",
		mcp.WithDescription("Refine a product idea into structured requirements using a supervisor-directed team of specialist agents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The product idea or requirements question to refine")),
		mcp.WithString("query_type", mcp.Description("Optional classification hint: domain, ux_ui, technical, revenue or general")),
		mcp.WithString("debate_content", mcp.Description("Optional debate text to resolve instead of running the full specialist workflow")),
		mcp.WithString("thread_id", mcp.Description("Optional conversation thread ID for cross-run context")),
		mcp.WithOutputSchema[domain.RunResponse](),
	)
	s.mcpServer.AddTool(refineTool, mcp.NewStructuredToolHandler(s.handleRefine))

	s.mcpServer.AddTool(mcp.NewTool("get_agents",
		mcp.WithDescription("List the supervisor and specialist agents with their expertise areas."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(domain.AgentCatalog())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	if s.store == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("get_conversation_history",
		mcp.WithDescription("Fetch prior refinement snapshots for a conversation thread, most recent first."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread ID")),
		mcp.WithNumber("limit", mcp.Description("Maximum snapshots to return (default 10)")),
	), s.handleHistory)

	s.mcpServer.AddTool(mcp.NewTool("clear_conversation_history",
		mcp.WithDescription("Delete all stored snapshots for a conversation thread."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread ID")),
	), s.handleClear)
}

func (s *Server) handleRefine(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.RunResponse, error) {
	query, _ := args["query"].(string)
	clean, err := runtime.SanitizeQuery(query)
	if err != nil {
		s.logger.Warn("query rejected", "error", err, "size", len(query))
		return domain.RunResponse{}, fmt.Errorf("query rejected: %w", err)
	}

	req := domain.RunRequest{Query: clean}
	if hint, ok := args["query_type"].(string); ok {
		req.QueryTypeHint = hint
	}
	if debate, ok := args["debate_content"].(string); ok {
		req.DebateContent = debate
	}
	if threadID, ok := args["thread_id"].(string); ok {
		req.ThreadID = threadID
	}

	start := s.now()
	state, err := s.engine.Run(ctx, req)
	if err != nil {
		s.logger.Error("run failed", "error", err, "thread_id", req.ThreadID)
		return domain.RunResponse{}, fmt.Errorf("refinement failed: %w", err)
	}
	return *domain.ResponseFrom(state, s.now().Sub(start).Seconds()), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadID := request.GetString("thread_id", "")
	if threadID == "" {
		return mcp.NewToolResultError("thread_id is required"), nil
	}
	limit := request.GetInt("limit", 10)

	history, err := s.store.History(ctx, threadID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("thread %s not found", threadID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(history)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadID := request.GetString("thread_id", "")
	if threadID == "" {
		return mcp.NewToolResultError("thread_id is required"), nil
	}

	if err := s.store.Clear(ctx, threadID); err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("thread %s not found", threadID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("clear failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("conversation history cleared for thread %s", threadID)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("refine://agents", "Agent Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(domain.AgentCatalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode agent catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "refine://agents",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
