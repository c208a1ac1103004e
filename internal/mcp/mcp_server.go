// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerOption configures the MCP server.
type ServerOption func(*toolHandler)

// WithToolRunner runs the analyzers through runner instead of the local binaries.
func WithToolRunner(runner contract.ToolRunner) ServerOption {
	return func(h *toolHandler) { h.runner = runner }
}

// NewMCPServer initializes and configures the sustain MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager, opts ...ServerOption) *server.MCPServer {
	s := server.NewMCPServer(
		"Sustainability Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		runner:  contract.NewLocalToolRunner(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.collector = core.NewCollectorFromConfig(baseCfg, h.runner)
	h.scorer = core.NewScorer(baseCfg.Rubric)

	// --- 1. Tool: score_file ---
	s.AddTool(mcp.NewTool("score_file",
		mcp.WithDescription("Score a source file for sustainability from static metrics (complexity, size, dependencies)."),
		mcp.WithString("path", mcp.Description("Path to the source file."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Force the language instead of detecting it (e.g. python, js, go).")),
	), h.handleScoreFile)

	// --- 2. Tool: get_rubric ---
	s.AddTool(mcp.NewTool("get_rubric",
		mcp.WithDescription("Return the scoring thresholds and weights per language."),
		mcp.WithString("language", mcp.Description("Only return the rubric of this language.")),
	), h.handleGetRubric)

	// --- 3. Tool: should_skip ---
	s.AddTool(mcp.NewTool("should_skip",
		mcp.WithDescription("Decide whether LLM optimization is worth running for a scored file."),
		mcp.WithNumber("score", mcp.Description("Aggregate sustainability score (0-100)."), mcp.Required()),
		mcp.WithNumber("code_loc", mcp.Description("Number of code lines."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Language of the file. Empty means unknown."), mcp.Required()),
		mcp.WithBoolean("force", mcp.Description("Always skip.")),
		mcp.WithBoolean("blank", mcp.Description("The content is empty or whitespace only.")),
	), h.handleShouldSkip)

	return s
}

// StartMCPServer starts the sustain MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
