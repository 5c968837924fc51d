package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/vending"
	"github.com/aretw0/vending/internal/logging"
	"github.com/aretw0/vending/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	RunOptions
	Transport string
	Port      int
}

// ServeMCP exposes an engine as MCP tools over stdio or SSE.
// Logs always go to Stderr so they never corrupt JSON-RPC on Stdout.
func ServeMCP(opts MCPOptions) error {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level, logging.Format(opts.LogFormat))
	slog.SetDefault(logger)

	engine, cleanup, err := createEngine(opts.RunOptions, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := mcp.NewServer(engine, vending.Version)

	switch opts.Transport {
	case "stdio":
		logger.Info("Starting vending MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("mcp server execution failed: %w", err)
		}
		return nil
	case "sse":
		logger.Info("Starting vending MCP server (SSE)", "port", opts.Port)
		sigCtx := NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		if err := srv.ServeSSE(sigCtx, opts.Port); err != nil {
			return fmt.Errorf("mcp server execution failed: %w", err)
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
