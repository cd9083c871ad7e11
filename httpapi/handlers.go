package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/lexandro/docserver-mcp/docerr"
	"github.com/lexandro/docserver-mcp/document"
)

type listRequest struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern"`
}

type documentRequest struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
}

type searchRequest struct {
	Path     string `json:"path"`
	Keyword  string `json:"keyword"`
	Encoding string `json:"encoding"`
}

type listResponse struct {
	Success bool     `json:"success"`
	Files   []string `json:"files"`
	Count   int      `json:"count"`
}

type documentResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Length  int    `json:"length"`
}

type searchResponse struct {
	Success bool                 `json:"success"`
	Path    string               `json:"path"`
	Keyword string               `json:"keyword"`
	Result  string               `json:"result"`
	Matches []document.LineMatch `json:"matches"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"list":   "/api/list",
		"get":    "/api/document",
		"search": "/api/search",
		"status": "/api/status",
	}
	if s.hasMCP {
		endpoints["mcp"] = "/mcp"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      s.name,
		"version":   s.version,
		"endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"docs_dir": s.docs.Root(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	req := listRequest{Directory: ".", Pattern: "*"}
	if !s.decode(w, r, &req) {
		return
	}

	files, err := s.docs.ListDocuments(r.Context(), req.Directory, req.Pattern)
	if err != nil {
		s.writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Files: files, Count: len(files)})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	req := documentRequest{Encoding: "utf-8"}
	if !s.decode(w, r, &req) {
		return
	}

	content, err := s.docs.GetDocument(r.Context(), req.Path, req.Encoding)
	if err != nil {
		s.writeError(w, err, req.Path)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{
		Success: true,
		Path:    req.Path,
		Content: content,
		Length:  utf8.RuneCountInString(content),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{Encoding: "utf-8"}
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.docs.SearchInDocument(r.Context(), req.Path, req.Keyword, req.Encoding)
	if err != nil {
		s.writeError(w, err, req.Path)
		return
	}

	matches := result.Matches
	if matches == nil {
		matches = []document.LineMatch{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Path:    req.Path,
		Keyword: req.Keyword,
		Result:  result.String(),
		Matches: matches,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.docs.Stats(r.Context())
	if err != nil {
		s.writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// decode reads an optional JSON body into dst, keeping dst's defaults for absent fields.
// It writes a 400 and returns false on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request body: %v", err)})
	return false
}

// writeError maps an error kind to a status code. A missing document is reported
// by its request path when documentPath is set.
func (s *Server) writeError(w http.ResponseWriter, err error, documentPath string) {
	status := StatusFor(err)
	detail := err.Error()
	if status == http.StatusNotFound && documentPath != "" {
		detail = "Document not found: " + documentPath
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

// StatusFor returns the HTTP status code for an error from the document service.
func StatusFor(err error) int {
	switch docerr.KindOf(err) {
	case docerr.KindNotFound:
		return http.StatusNotFound
	case docerr.KindInvalidInput, docerr.KindPathTraversal:
		return http.StatusBadRequest
	case docerr.KindInvalidRoot, docerr.KindNotAFile, docerr.KindNotADirectory,
		docerr.KindTooLarge, docerr.KindDecodeError, docerr.KindIOError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
