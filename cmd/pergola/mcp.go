package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/pergola/internal/cli"
	"github.com/aretw0/pergola/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp <url>",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Boots the engine against the given start URL and exposes it as an MCP Server.
This allows AI agents to drive and inspect navigation as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := context.Background()
		engine, cleanup, err := cli.Boot(ctx, args[0], configPath, debug)
		if err != nil {
			log.Fatalf("Error initializing engine: %v", err)
		}
		defer cleanup()

		srv := mcp.NewServer(engine)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Pergola MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ServeSSE(sigCtx, port); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		default:
			log.Fatalf("Unknown transport: %s (expected stdio or sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport to use (stdio or sse)")
	mcpCmd.Flags().IntP("port", "p", 8765, "Port for the SSE transport")
}
