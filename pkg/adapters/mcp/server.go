package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/mootcourt"
	"github.com/aretw0/mootcourt/internal/presentation/graph"
	"github.com/aretw0/mootcourt/pkg/domain"
	"github.com/aretw0/mootcourt/pkg/runner"
	"github.com/aretw0/mootcourt/pkg/session"
)

// CasesURI is the resource listing the case library.
const CasesURI = "mootcourt://cases"

// SessionResponse is the structured result of the session tools.
type SessionResponse struct {
	Accepted *bool            `json:"accepted,omitempty" jsonschema_description:"Whether the submission was accepted"`
	Snapshot *domain.Snapshot `json:"snapshot" jsonschema_description:"The session after the call"`
}

// StartArgs are the arguments of start_session.
type StartArgs struct {
	CaseID string `json:"case_id"`
	Role   string `json:"role,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// SubmitArgs are the arguments of submit_response.
type SubmitArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Wait      bool   `json:"wait,omitempty"`
}

// SessionArgs identify a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// Server exposes a session.Manager as an MCP Server.
type Server struct {
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		sessions: mgr,
		logger:   logger,
		mcpServer: server.NewMCPServer("mootcourt-mcp", strings.TrimSpace(mootcourt.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_cases",
		mcp.WithDescription("List the case library. Only playable cases can start a session."),
	), s.handleListCases)

	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a hearing for a case. The first turn is revealed immediately."),
		mcp.WithString("case_id", mcp.Required(), mcp.Description("Case to play")),
		mcp.WithString("role", mcp.Description("Practice role (defense or prosecution)")),
		mcp.WithString("mode", mcp.Description("Practice mode (guided or free)")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	submitTool := mcp.NewTool("submit_response",
		mcp.WithDescription("Submit the participant's response. With wait, returns once the court needs the participant again or the hearing ends."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The participant's argument")),
		mcp.WithBoolean("wait", mcp.Description("Block until the session settles")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmit))

	transcriptTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the current snapshot of a session, including its transcript."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(transcriptTool, mcp.NewStructuredToolHandler(s.handleTranscript))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid flowchart of the session's script with progress."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Tear a session down."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleEnd)
}

func (s *Server) handleListCases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.sessions.Catalog().List())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (SessionResponse, error) {
	entry, err := s.sessions.Create(ctx, session.Request{CaseID: args.CaseID, Role: args.Role, Mode: args.Mode})
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.Info("MCP session started", "session_id", entry.Session.ID(), "case", args.CaseID)
	return SessionResponse{Snapshot: entry.Session.Snapshot()}, nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args SubmitArgs) (SessionResponse, error) {
	clean, err := runner.SanitizeInput(args.Text)
	if err != nil {
		s.logger.Warn("MCP Submit: Input rejected", "err", err, "size", len(args.Text))
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	accepted, err := s.sessions.Submit(ctx, args.SessionID, clean)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	entry, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	snap := entry.Session.Snapshot()
	if accepted && args.Wait {
		if snap, err = entry.Session.WaitSettled(ctx); err != nil {
			return SessionResponse{}, fmt.Errorf("wait interrupted: %w", err)
		}
	}
	return SessionResponse{Accepted: &accepted, Snapshot: snap}, nil
}

func (s *Server) handleTranscript(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	entry, err := s.sessions.Get(args.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Snapshot: entry.Session.Snapshot()}, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := s.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap := entry.Session.Snapshot()
	return mcp.NewToolResultText(graph.GenerateMermaid(entry.Session.Script(), graph.OverlayFromSnapshot(snap))), nil
}

func (s *Server) handleEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Close(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("end failed: %v", err)), nil
	}
	return mcp.NewToolResultText("session " + id + " closed"), nil
}

func (s *Server) registerResources() {
	// EXPOSE: mootcourt://cases
	s.mcpServer.AddResource(mcp.NewResource(CasesURI, "Case Library",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.sessions.Catalog().List())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CasesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
