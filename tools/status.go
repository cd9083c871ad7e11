package tools

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/lexandro/docserver-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the docs_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Documents document.Provider
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a docs_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	stats, err := h.Documents.Stats(ctx)
	if err != nil {
		h.Logger.Warn("docs_status failed", "error", err)
		return errorResult("Error reading status", err), nil, nil
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	uptime := time.Since(h.StartTime)

	h.Logger.Info("docs_status",
		"documents", stats.DocumentCount,
		"totalSize", stats.TotalSizeBytes,
		"memory", memStats.HeapAlloc,
		"uptime", uptime,
	)

	return textResult(FormatStatus(stats, uptime, memStats.HeapAlloc)), nil, nil
}
