package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/docserver-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListDocumentsArgs defines the input parameters for the list_documents tool.
type ListDocumentsArgs struct {
	Directory string `json:"directory,omitempty" jsonschema:"Directory relative to the documents root (default .)"`
	Pattern   string `json:"pattern,omitempty" jsonschema:"Glob pattern (default *). Without a slash it matches file names at any depth; with a slash it matches the path below directory, ** allowed"`
}

// ListDocumentsHandler holds the dependencies for the list_documents tool.
type ListDocumentsHandler struct {
	Documents document.Provider
	Logger    *slog.Logger
}

// Handle processes a list_documents request.
func (h *ListDocumentsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListDocumentsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	directory := args.Directory
	if directory == "" {
		directory = "."
	}
	pattern := args.Pattern
	if pattern == "" {
		pattern = "*"
	}

	files, err := h.Documents.ListDocuments(ctx, directory, pattern)
	if err != nil {
		h.Logger.Warn("list_documents failed", "directory", directory, "pattern", pattern, "error", err)
		return errorResult("Error listing documents", err), nil, nil
	}

	h.Logger.Info("list_documents",
		"directory", directory,
		"pattern", pattern,
		"results", len(files),
		"elapsed", time.Since(start),
	)

	return textResult(FormatDocumentList(files, directory, pattern)), nil, nil
}
