package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/docserver-mcp/access"
	"github.com/lexandro/docserver-mcp/document"
	"github.com/lexandro/docserver-mcp/pathguard"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T) *document.Service {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"test.txt":          "This is a test document.",
		"sample.md":         "# Sample Document\n\nHello World!",
		"subdir/nested.txt": "Nested document",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	guard, err := pathguard.New(root)
	if err != nil {
		t.Fatalf("failed to create guard: %v", err)
	}
	return document.NewService(access.New(guard, access.Options{}), document.Options{Logger: testLogger()})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	return result.Content[0].(*mcp.TextContent).Text
}

// failingProvider returns err from every operation.
type failingProvider struct {
	err error
}

func (p failingProvider) Root() string { return "/nowhere" }
func (p failingProvider) GetDocument(context.Context, string, string) (string, error) {
	return "", p.err
}
func (p failingProvider) ListDocuments(context.Context, string, string) ([]string, error) {
	return nil, p.err
}
func (p failingProvider) SearchInDocument(context.Context, string, string, string) (*document.SearchResult, error) {
	return nil, p.err
}
func (p failingProvider) Stats(context.Context) (*document.Stats, error) {
	return nil, p.err
}

// --- get_document ---

func Test_GetDocumentHandler_Success(t *testing.T) {
	h := &GetDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, GetDocumentArgs{Path: "test.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}
	if got := resultText(t, result); got != "This is a test document." {
		t.Errorf("unexpected content: %q", got)
	}
}

func Test_GetDocumentHandler_NotFound(t *testing.T) {
	h := &GetDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, GetDocumentArgs{Path: "nonexistent.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing file")
	}
	if got := resultText(t, result); got != "Error getting document: file not found: nonexistent.txt" {
		t.Errorf("unexpected message: %q", got)
	}
}

func Test_GetDocumentHandler_PathTraversal(t *testing.T) {
	h := &GetDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, GetDocumentArgs{Path: "../../../etc/passwd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	if !result.IsError || !strings.Contains(text, "access denied") {
		t.Errorf("expected access denied error result, got: %s", text)
	}
}

func Test_GetDocumentHandler_InvalidEncoding(t *testing.T) {
	h := &GetDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, GetDocumentArgs{Path: "test.txt", Encoding: "latin-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "unsupported encoding") {
		t.Errorf("expected unsupported encoding error, got: %s", resultText(t, result))
	}
}

// --- list_documents ---

func Test_ListDocumentsHandler_Defaults(t *testing.T) {
	h := &ListDocumentsHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ListDocumentsArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "sample.md\nsubdir/nested.txt\ntest.txt"
	if got := resultText(t, result); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func Test_ListDocumentsHandler_NoMatches(t *testing.T) {
	h := &ListDocumentsHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ListDocumentsArgs{Pattern: "*.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("empty listing must not be an error")
	}
	want := "No documents found in '.' matching pattern '*.pdf'"
	if got := resultText(t, result); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func Test_ListDocumentsHandler_MissingDirectory(t *testing.T) {
	h := &ListDocumentsHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, ListDocumentsArgs{Directory: "nonexistent_dir"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true")
	}
	if got := resultText(t, result); got != "Error listing documents: directory not found: nonexistent_dir" {
		t.Errorf("unexpected message: %q", got)
	}
}

// --- search_in_document ---

func Test_SearchInDocumentHandler_Found(t *testing.T) {
	h := &SearchInDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, SearchInDocumentArgs{Path: "test.txt", Keyword: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultText(t, result); got != "Line 1: This is a test document." {
		t.Errorf("unexpected output: %q", got)
	}
}

func Test_SearchInDocumentHandler_NotFoundKeyword(t *testing.T) {
	h := &SearchInDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, SearchInDocumentArgs{Path: "test.txt", Keyword: "nonexistent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("a missing keyword is not an error")
	}
	if got := resultText(t, result); !strings.Contains(got, "not found") {
		t.Errorf("expected not-found notice, got: %q", got)
	}
}

func Test_SearchInDocumentHandler_EmptyKeyword(t *testing.T) {
	h := &SearchInDocumentHandler{Documents: newTestProvider(t), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, SearchInDocumentArgs{Path: "test.txt", Keyword: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultText(t, result); !result.IsError || got != "Error searching in document: keyword cannot be empty" {
		t.Errorf("unexpected result: %q (IsError=%v)", got, result.IsError)
	}
}

// --- docs_status ---

func Test_StatusHandler_Report(t *testing.T) {
	h := &StatusHandler{Documents: newTestProvider(t), StartTime: time.Now(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"docserver-mcp Status", "Documents: 3", "Plain Text", "Markdown"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in status output:\n%s", want, text)
		}
	}
}

func Test_StatusHandler_Error(t *testing.T) {
	h := &StatusHandler{Documents: failingProvider{err: errors.New("disk gone")}, Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultText(t, result); !result.IsError || got != "Error reading status: disk gone" {
		t.Errorf("unexpected result: %q", got)
	}
}

func Test_Handlers_NeverReturnProtocolErrors(t *testing.T) {
	p := failingProvider{err: errors.New("boom")}
	ctx := context.Background()

	r1, _, err1 := (&GetDocumentHandler{Documents: p, Logger: testLogger()}).Handle(ctx, nil, GetDocumentArgs{Path: "a"})
	r2, _, err2 := (&ListDocumentsHandler{Documents: p, Logger: testLogger()}).Handle(ctx, nil, ListDocumentsArgs{})
	r3, _, err3 := (&SearchInDocumentHandler{Documents: p, Logger: testLogger()}).Handle(ctx, nil, SearchInDocumentArgs{Path: "a", Keyword: "k"})

	for i, err := range []error{err1, err2, err3} {
		if err != nil {
			t.Errorf("handler %d returned protocol error: %v", i, err)
		}
	}
	for i, r := range []*mcp.CallToolResult{r1, r2, r3} {
		if !r.IsError {
			t.Errorf("handler %d: expected IsError=true", i)
		}
	}
}

// --- formatting ---

func Test_FormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatFileSize(tt.bytes); got != tt.expected {
			t.Errorf("formatFileSize(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_1h30m", 90 * time.Minute, "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDuration(tt.duration); got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func Test_FormatStatus_SortsFormats(t *testing.T) {
	stats := &document.Stats{
		Root:           "/docs",
		DocumentCount:  4,
		TotalSizeBytes: 2048,
		Formats:        map[string]int{"Markdown": 1, "Plain Text": 3},
	}

	got := FormatStatus(stats, 90*time.Second, 0)

	if !strings.Contains(got, "Documents directory: /docs") || !strings.Contains(got, "Total size: 2.0 KB") {
		t.Errorf("missing header lines:\n%s", got)
	}
	if strings.Index(got, "Plain Text") > strings.Index(got, "Markdown") {
		t.Errorf("expected formats sorted by count descending:\n%s", got)
	}
}
