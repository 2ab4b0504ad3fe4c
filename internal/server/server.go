// Package server exposes the sandbox tools over the Model Context Protocol.
// It adapts the tool registry onto an MCP stdio server: arguments are
// validated against each tool's JSON schema before dispatch, and every call
// resolves to a text result.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
	"github.com/ChamsBouzaiene/crucible/internal/tools"
	"github.com/ChamsBouzaiene/crucible/internal/tools/execution"
)

const serverName = "crucible"

// Server wraps the MCP server together with the registered tool set.
type Server struct {
	mcp    *mcpserver.MCPServer
	logger *slog.Logger
}

// New builds the MCP server and registers the enabled execution tools.
func New(eng *sandbox.Engine, version string, logger *slog.Logger) *Server {
	cfg := eng.Config()

	registry := tools.Registry{}
	if cfg.EnablePython {
		logger.Info("registering Python execution tool")
		registry.Register(execution.NewExecutePythonTool(cfg, eng))
	}
	if cfg.EnableBash {
		logger.Info("registering Bash execution tool")
		registry.Register(execution.NewExecuteBashTool(cfg, eng))
	}

	s := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(false),
	)
	srv := &Server{mcp: s, logger: logger}
	for _, t := range registry {
		s.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, json.RawMessage(t.SchemaJSON)),
			srv.handlerFor(t),
		)
	}
	return srv
}

// handlerFor adapts a tool into an MCP tool handler. Validation and execution
// failures become error results, preserving the uniform response contract.
func (s *Server) handlerFor(t tools.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := t.ValidateArgs(args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := t.Fn(ctx, args)
		if err != nil {
			s.logger.Error("tool call failed",
				slog.String("tool", t.Name),
				slog.Any("error", err),
			)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// ServeStdio serves MCP over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcp)
}
