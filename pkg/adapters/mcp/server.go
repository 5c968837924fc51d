package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/vending/internal/presentation/graph"
	"github.com/aretw0/vending/pkg/automaton"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	stateURI   = "vending://state"
	machineURI = "vending://machine"
)

// InsertCoinArgs are the arguments of the insert_coin tool.
type InsertCoinArgs struct {
	Coin int `json:"coin"`
}

// NoArgs is used by tools without arguments.
type NoArgs struct{}

// Server wraps a vending Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("vending-mcp", version),
	}
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

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: insert_coin
	insertTool := mcp.NewTool("insert_coin",
		mcp.WithDescription("Insert one coin. Ignored after delivery or while the machine is busy; coins outside the alphabet fail."),
		mcp.WithNumber("coin", mcp.Required(), mcp.Description("Coin value in cents")),
		mcp.WithOutputSchema[domain.RunState](),
	)
	s.mcpServer.AddTool(insertTool, mcp.NewStructuredToolHandler(s.handleInsertCoin))

	// TOOL: dispense
	s.mcpServer.AddTool(mcp.NewTool("dispense",
		mcp.WithDescription("Deliver the product once the price has been met. Ignored otherwise."),
		mcp.WithOutputSchema[domain.RunState](),
	), mcp.NewStructuredToolHandler(s.handleDispense))

	// TOOL: reset
	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Start a new run, returning to the initial state."),
		mcp.WithOutputSchema[domain.RunState](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: get_state
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the current run: level, acceptance, change and transition log."),
		mcp.WithOutputSchema[domain.RunState](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: get_machine
	s.mcpServer.AddTool(mcp.NewTool("get_machine",
		mcp.WithDescription("Get the automaton definition: states, alphabet, price and transition table."),
		mcp.WithOutputSchema[automaton.Summary](),
	), mcp.NewStructuredToolHandler(s.handleGetMachine))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid diagram of the automaton with the current run highlighted."),
	), s.handleGetGraph)
}

func (s *Server) handleInsertCoin(ctx context.Context, request mcp.CallToolRequest, args InsertCoinArgs) (domain.RunState, error) {
	state, err := s.engine.InsertCoin(ctx, domain.Coin(args.Coin))
	if err != nil {
		return domain.RunState{}, fmt.Errorf("insert_coin failed: %w", err)
	}
	return state, nil
}

func (s *Server) handleDispense(ctx context.Context, request mcp.CallToolRequest, args NoArgs) (domain.RunState, error) {
	return s.engine.Dispense(ctx), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args NoArgs) (domain.RunState, error) {
	return s.engine.Reset(ctx), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args NoArgs) (domain.RunState, error) {
	return s.engine.Snapshot(), nil
}

func (s *Server) handleGetMachine(ctx context.Context, request mcp.CallToolRequest, args NoArgs) (automaton.Summary, error) {
	return s.engine.Machine().Summary(), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overlay := graph.OverlayFromRun(s.engine.Snapshot())
	return mcp.NewToolResultText(graph.GenerateMermaid(s.engine.Machine(), overlay)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: vending://machine
	s.mcpServer.AddResource(mcp.NewResource(machineURI, "Formal Machine Definition",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      machineURI,
				MIMEType: "text/markdown",
				Text:     s.engine.Machine().Definition(),
			},
		}, nil
	})

	// EXPOSE: vending://state
	s.mcpServer.AddResource(mcp.NewResource(stateURI, "Current Run",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      stateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
