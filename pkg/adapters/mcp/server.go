package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource URI of the current raw graph.
const GraphURI = "macrograph://graph"

// StatusResponse is the structured payload of run_status, start_run and stop_run.
type StatusResponse struct {
	Status  domain.RunStatus  `json:"status" jsonschema_description:"Engine status: idle, running, stopping or stopped"`
	Started bool              `json:"started,omitempty" jsonschema_description:"Set by start_run when a run began"`
	Reason  string            `json:"reason,omitempty" jsonschema_description:"Why start_run did not start anything"`
	Run     *domain.RunRecord `json:"run,omitempty" jsonschema_description:"Current or most recent run"`
}

// Server wraps a ports.Controller and exposes it as an MCP Server.
type Server struct {
	ctrl      ports.Controller
	logger    *slog.Logger
	version   string
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithVersion sets the version reported during MCP initialization.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new MCP Server instance.
func NewServer(ctrl ports.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:    ctrl,
		logger:  slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("macrograph-mcp", s.version)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Compile the current graph and start running it in the background."),
		mcp.WithOutputSchema[StatusResponse](),
	), s.handleStartRun)

	s.mcpServer.AddTool(mcp.NewTool("stop_run",
		mcp.WithDescription("Stop the active run and wait until it has stopped."),
		mcp.WithNumber("timeout_ms", mcp.Description("How long to wait for the run to stop (optional)")),
		mcp.WithOutputSchema[StatusResponse](),
	), s.handleStopRun)

	s.mcpServer.AddTool(mcp.NewTool("run_status",
		mcp.WithDescription("Report the engine status and the current or most recent run."),
		mcp.WithOutputSchema[StatusResponse](),
	), s.handleStatus)

	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List persisted runs, most recent first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (optional)")),
	), s.handleListRuns)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full graph definition for introspection."),
	), s.handleGetGraph)
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := s.ctrl.StartRun(ctx)
	switch {
	case errors.Is(err, domain.ErrNoObserverNode):
		status, _ := s.ctrl.Status()
		return structured(StatusResponse{Status: status, Reason: err.Error()})
	case err != nil:
		s.logger.Warn("MCP start_run failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("start failed: %v", err)), nil
	}
	return structured(StatusResponse{Status: rec.Status, Started: true, Run: &rec})
}

func (s *Server) handleStopRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ms := request.GetFloat("timeout_ms", 0); ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}
	if err := s.ctrl.Stop(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stop failed: %v", err)), nil
	}
	return s.handleStatus(ctx, request)
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, rec := s.ctrl.Status()
	return structured(StatusResponse{Status: status, Run: rec})
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runs, err := s.ctrl.History(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	if runs == nil {
		runs = []domain.RunRecord{}
	}
	return jsonText(runs)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := s.ctrl.Inspect(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return jsonText(g)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Current Graph Definition",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	g, err := s.ctrl.Inspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect graph: %w", err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func structured(v StatusResponse) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultStructured(v, string(data)), nil
}

func jsonText(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
