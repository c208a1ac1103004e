package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.HistoryManager
	runner    contract.ToolRunner
	collector *core.Collector
	scorer    *core.Scorer
}

// scoreFileResult is the score_file answer.
type scoreFileResult struct {
	schema.RankedFileReport
	Gate schema.GateDecision `json:"gate"`
}

func (h *toolHandler) handleScoreFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if info, err := os.Stat(path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access %s: %v", path, err)), nil
	} else if info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is a directory", path)), nil
	}

	lang, err := schema.ParseLanguage(request.GetString("language", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid language: %v", err)), nil
	}
	cfg := h.baseCfg.Clone()
	cfg.Language = lang
	cfg.Paths = []string{path}

	builder := core.NewFileReportBuilder(ctx, h.collector, h.scorer, path).
		WithLanguage(cfg.Language).
		ReadContent().
		DetectLanguage().
		CollectMetrics().
		DeriveMetrics().
		CalculateScore()
	report := builder.Build()
	if report.Err != "" {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %s", report.Err)), nil
	}

	if store := h.historyStore(); store != nil {
		core.RecordScans(ctx, store, "mcp:score_file", map[string]any{"path": path, "language": string(lang)}, []schema.FileReport{report})
	}

	result := scoreFileResult{
		RankedFileReport: schema.RankFiles([]schema.FileReport{report})[0],
		Gate: core.NewGatePolicy(cfg).ShouldSkip(
			report.Result.Score,
			report.CodeLOC,
			cfg.SkipLLM,
			report.Language != schema.Unknown,
			builder.IsBlank(),
		),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRubric(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rubric := h.scorer.Rubric()

	lang, err := schema.ParseLanguage(request.GetString("language", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid language: %v", err)), nil
	}

	langs := rubric.Languages()
	if lang != schema.Unknown {
		if !rubric.Has(lang) {
			return mcp.NewToolResultError(fmt.Sprintf("no rubric defined for %s", lang.DisplayName())), nil
		}
		langs = []schema.Language{lang}
	}

	out := make(map[schema.Language]schema.LanguageRubric, len(langs))
	for _, l := range langs {
		out[l], _ = rubric.For(l)
	}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleShouldSkip(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, err := request.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if score < 0 || score > 100 {
		return mcp.NewToolResultError(fmt.Sprintf("score must be between 0 and 100 (received %v)", score)), nil
	}
	codeLOC, err := request.RequireInt("code_loc")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if codeLOC < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("code_loc must be >= 0 (received %d)", codeLOC)), nil
	}

	// An unsupported language name is treated as unknown rather than an error.
	lang, _ := schema.ParseLanguage(request.GetString("language", ""))

	decision := core.NewGatePolicy(h.baseCfg).ShouldSkip(
		score,
		codeLOC,
		request.GetBool("force", false),
		lang != schema.Unknown,
		request.GetBool("blank", false),
	)
	jsonData, _ := json.MarshalIndent(decision, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) historyStore() contract.HistoryStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetHistoryStore()
}
