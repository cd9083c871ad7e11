package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/docserver-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetDocumentArgs defines the input parameters for the get_document tool.
type GetDocumentArgs struct {
	Path     string `json:"path" jsonschema:"Relative path to the document (e.g. guide/intro.md)"`
	Encoding string `json:"encoding,omitempty" jsonschema:"File encoding: utf-8 (default), shift_jis, euc-jp or cp932"`
}

// GetDocumentHandler holds the dependencies for the get_document tool.
type GetDocumentHandler struct {
	Documents document.Provider
	Logger    *slog.Logger
}

// Handle processes a get_document request.
func (h *GetDocumentHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GetDocumentArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	content, err := h.Documents.GetDocument(ctx, args.Path, encodingOrDefault(args.Encoding))
	if err != nil {
		h.Logger.Warn("get_document failed", "path", args.Path, "error", err)
		return errorResult("Error getting document", err), nil, nil
	}

	h.Logger.Info("get_document", "path", args.Path, "bytes", len(content), "elapsed", time.Since(start))
	return textResult(content), nil, nil
}

func encodingOrDefault(encoding string) string {
	if encoding == "" {
		return "utf-8"
	}
	return encoding
}
