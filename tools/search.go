package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/docserver-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInDocumentArgs defines the input parameters for the search_in_document tool.
type SearchInDocumentArgs struct {
	Path     string `json:"path" jsonschema:"Relative path to the document to search"`
	Keyword  string `json:"keyword" jsonschema:"Text to look for, matched case-insensitively within each line"`
	Encoding string `json:"encoding,omitempty" jsonschema:"File encoding: utf-8 (default), shift_jis, euc-jp or cp932"`
}

// SearchInDocumentHandler holds the dependencies for the search_in_document tool.
type SearchInDocumentHandler struct {
	Documents document.Provider
	Logger    *slog.Logger
}

// Handle processes a search_in_document request.
func (h *SearchInDocumentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchInDocumentArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	result, err := h.Documents.SearchInDocument(ctx, args.Path, args.Keyword, encodingOrDefault(args.Encoding))
	if err != nil {
		h.Logger.Warn("search_in_document failed", "path", args.Path, "keyword", args.Keyword, "error", err)
		return errorResult("Error searching in document", err), nil, nil
	}

	h.Logger.Info("search_in_document",
		"path", args.Path,
		"keyword", args.Keyword,
		"matches", len(result.Matches),
		"elapsed", time.Since(start),
	)

	return textResult(result.String()), nil, nil
}
