// Package document implements the document operations shared by every front end:
// fetching, listing and keyword search over a confined documents directory.
package document

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/lexandro/docserver-mcp/access"
	"github.com/lexandro/docserver-mcp/docerr"
)

// DefaultMaxFileSize is the largest document GetDocument will read (10 MiB).
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Provider is the operation set consumed by the MCP and HTTP adapters.
type Provider interface {
	Root() string
	GetDocument(ctx context.Context, path string, encoding string) (string, error)
	ListDocuments(ctx context.Context, directory string, pattern string) ([]string, error)
	SearchInDocument(ctx context.Context, path string, keyword string, encoding string) (*SearchResult, error)
	Stats(ctx context.Context) (*Stats, error)
}

// Options configures a Service.
type Options struct {
	MaxFileSize int64 // default DefaultMaxFileSize
	Logger      *slog.Logger
}

// Service validates requests and delegates filesystem work to an access.Accessor.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	accessor    *access.Accessor
	maxFileSize int64
	logger      *slog.Logger
}

var _ Provider = (*Service)(nil)

// NewService creates a document service over accessor.
func NewService(accessor *access.Accessor, options Options) *Service {
	if options.MaxFileSize <= 0 {
		options.MaxFileSize = DefaultMaxFileSize
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	options.Logger.Info("document service initialized",
		"root", accessor.Root(),
		"maxFileSize", options.MaxFileSize,
	)

	return &Service{
		accessor:    accessor,
		maxFileSize: options.MaxFileSize,
		logger:      options.Logger,
	}
}

// Root returns the documents directory.
func (s *Service) Root() string {
	return s.accessor.Root()
}

// GetDocument returns the decoded content of the document at path.
// encoding must name a supported encoding; callers apply their own default.
func (s *Service) GetDocument(ctx context.Context, path string, encoding string) (string, error) {
	s.logger.Info("fetching document", "path", path, "encoding", encoding)

	if strings.TrimSpace(path) == "" {
		return "", s.validationFailed(path, docerr.InvalidInput("path cannot be empty"))
	}

	enc, ok := access.ParseEncoding(encoding)
	if !ok {
		return "", s.validationFailed(path, docerr.InvalidInput(
			"unsupported encoding: %s. supported: %s", encoding, supportedEncodingList()))
	}

	content, err := s.accessor.Read(ctx, path, enc, s.maxFileSize)
	if err != nil {
		return "", s.readFailed(path, err)
	}

	s.logger.Info("fetched document", "path", path, "characters", utf8.RuneCountInString(content))
	return content, nil
}

// ListDocuments lists documents below directory matching pattern.
// Empty arguments default to "." and "*".
func (s *Service) ListDocuments(ctx context.Context, directory string, pattern string) ([]string, error) {
	if directory == "" {
		directory = "."
	}
	if pattern == "" {
		pattern = "*"
	}
	s.logger.Info("listing documents", "directory", directory, "pattern", pattern)

	files, err := s.accessor.ListFiles(ctx, directory, pattern)
	if err != nil {
		s.logger.Error("listing documents failed", "directory", directory, "pattern", pattern, "error", err)
		return nil, err
	}

	s.logger.Info("listed documents", "directory", directory, "count", len(files))
	return files, nil
}

// SearchInDocument returns the lines of the document at path containing keyword,
// compared case-insensitively. A keyword that never occurs is not an error.
func (s *Service) SearchInDocument(ctx context.Context, path string, keyword string, encoding string) (*SearchResult, error) {
	s.logger.Info("searching document", "path", path, "keyword", keyword)

	if strings.TrimSpace(keyword) == "" {
		return nil, s.validationFailed(path, docerr.InvalidInput("keyword cannot be empty"))
	}

	content, err := s.GetDocument(ctx, path, encoding)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Path:    path,
		Keyword: keyword,
		Matches: findMatchingLines(content, keyword),
	}

	s.logger.Info("searched document", "path", path, "keyword", keyword, "matches", len(result.Matches))
	return result, nil
}

func (s *Service) validationFailed(path string, err error) error {
	s.logger.Warn("validation error", "path", path, "error", err)
	return err
}

// readFailed passes classified errors through and wraps anything else as an I/O error.
func (s *Service) readFailed(path string, err error) error {
	if !docerr.IsClassified(err) {
		s.logger.Error("unexpected error fetching document", "path", path, "error", err)
		return docerr.IO("read document", path, err)
	}

	switch docerr.KindOf(err) {
	case docerr.KindInvalidInput, docerr.KindPathTraversal:
		s.logger.Warn("validation error", "path", path, "error", err)
	case docerr.KindNotFound:
		s.logger.Error("document not found", "path", path)
	default:
		s.logger.Error("reading document failed", "path", path, "error", err)
	}
	return err
}

func supportedEncodingList() string {
	names := make([]string, len(access.SupportedEncodings))
	for i, enc := range access.SupportedEncodings {
		names[i] = string(enc)
	}
	return strings.Join(names, ", ")
}
