package server

import (
	"context"
	"net/http"

	"github.com/lexandro/docserver-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and Version identify the server to MCP clients and the HTTP API.
const (
	Name    = "docserver-mcp"
	Version = "1.0.0"
)

// Handlers groups the tool handlers registered on the MCP server.
type Handlers struct {
	GetDocument      *tools.GetDocumentHandler
	ListDocuments    *tools.ListDocumentsHandler
	SearchInDocument *tools.SearchInDocumentHandler
	Status           *tools.StatusHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server gives read-only access to a single documents directory. Paths are relative to that directory; anything resolving outside it is refused.

- Use list_documents to discover documents (recursive, glob filtered)
- Use get_document to read a document; pass encoding for Japanese legacy files (shift_jis, euc-jp, cp932)
- Use search_in_document to find the lines of one document containing a keyword
- Use docs_status for a summary of the directory`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get_document",
		Description: "Get the full text content of a document. Path is relative to the documents directory. Encoding defaults to utf-8; shift_jis, euc-jp and cp932 are also supported.",
	}, handlers.GetDocument.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "list_documents",
		Description: `List documents below a directory, recursively. Returns one relative path per line.

Pattern examples:
  - "*" - every document (default)
  - "*.md" - Markdown files at any depth
  - "guide/**/*.txt" - text files under guide/`,
	}, handlers.ListDocuments.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "search_in_document",
		Description: `Search a single document for a keyword (case-insensitive). Returns matching lines as "Line N: text".`,
	}, handlers.SearchInDocument.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "docs_status",
		Description: "Show documents directory status: document count, total size, formats, memory usage and uptime.",
	}, handlers.Status.Handle)

	return mcpServer
}

// RunStdio serves mcpServer over stdin/stdout until ctx is cancelled or the client disconnects.
func RunStdio(ctx context.Context, mcpServer *mcp.Server) error {
	return mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler exposes mcpServer over the streamable HTTP transport.
func HTTPHandler(mcpServer *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return mcpServer
	}, nil)
}
