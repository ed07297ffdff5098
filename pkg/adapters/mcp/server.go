// Package mcp exposes a running engine as an MCP server so agents can
// drive and inspect navigation over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/pergola"
	"github.com/aretw0/pergola/internal/presentation/graph"
	"github.com/aretw0/pergola/pkg/domain"
)

// StatusResponse is the unified tool result structure across adapters.
type StatusResponse struct {
	Running   bool   `json:"running" jsonschema_description:"Whether a transition is currently running"`
	URL       string `json:"url,omitempty" jsonschema_description:"URL of the current page"`
	Namespace string `json:"namespace,omitempty" jsonschema_description:"Namespace of the current page"`
	Title     string `json:"title,omitempty" jsonschema_description:"Title of the current page"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Navigate(ctx context.Context, target string, trigger domain.Trigger) error
	Prefetch(ctx context.Context, target string) error
	Running() bool
	CurrentPage() *domain.Page
	History() []domain.HistoryEntry
	Transitions() []*domain.Transition
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("pergola-mcp", pergola.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: navigate
	navigateTool := mcp.NewTool("navigate",
		mcp.WithDescription("Navigate the page to the given URL, running the matching transition."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Target URL, absolute or relative to the current page")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(navigateTool, mcp.NewStructuredToolHandler(s.handleNavigate))

	// TOOL: prefetch
	prefetchTool := mcp.NewTool("prefetch",
		mcp.WithDescription("Warm the page cache for a URL without navigating to it."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Target URL to fetch into the cache")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(prefetchTool, mcp.NewStructuredToolHandler(s.handlePrefetch))

	// TOOL: get_status
	statusTool := mcp.NewTool("get_status",
		mcp.WithDescription("Get the engine's current page and running state."),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: get_history
	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the navigation history as a JSON array of entries."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.History())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_transitions
	s.mcpServer.AddTool(mcp.NewTool("get_transitions",
		mcp.WithDescription("Get the registered transition rules for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(describeTransitions(s.engine.Transitions()))
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	url, _ := args["url"].(string)
	if url == "" {
		return StatusResponse{}, fmt.Errorf("url is required")
	}

	if err := s.engine.Navigate(ctx, url, domain.ScriptTrigger); err != nil {
		slog.Error("MCP Navigate failed", "error", err, "url", url)
		return StatusResponse{}, fmt.Errorf("navigate failed: %w", err)
	}

	return s.status(), nil
}

func (s *Server) handlePrefetch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	url, _ := args["url"].(string)
	if url == "" {
		return StatusResponse{}, fmt.Errorf("url is required")
	}

	if err := s.engine.Prefetch(ctx, url); err != nil {
		return StatusResponse{}, fmt.Errorf("prefetch failed: %w", err)
	}

	return s.status(), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	return s.status(), nil
}

func (s *Server) status() StatusResponse {
	resp := StatusResponse{Running: s.engine.Running()}
	if page := s.engine.CurrentPage(); page != nil {
		resp.URL = page.URL
		resp.Namespace = page.Namespace
		resp.Title = page.Title
	}
	return resp
}

func describeTransitions(transitions []*domain.Transition) []map[string]any {
	rules := make([]map[string]any, len(transitions))
	for i, t := range transitions {
		rules[i] = map[string]any{
			"name":   t.Name,
			"from":   t.From.Namespace,
			"to":     t.To.Namespace,
			"sync":   t.Sync,
			"appear": t.Appear != nil,
		}
	}
	return rules
}

func (s *Server) registerResources() {
	// EXPOSE: pergola://transitions
	s.mcpServer.AddResource(mcp.NewResource("pergola://transitions", "Registered Transition Rules",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "pergola://transitions",
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(s.engine.Transitions(), nil),
			},
		}, nil
	})
}
