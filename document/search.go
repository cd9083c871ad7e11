package document

import (
	"fmt"
	"strings"
)

// LineMatch is a single matching line within a document.
type LineMatch struct {
	LineNumber int    `json:"line"` // 1-based
	LineText   string `json:"text"`
}

// SearchResult holds the matching lines of one document, in document order.
type SearchResult struct {
	Path    string
	Keyword string
	Matches []LineMatch
}

// Found reports whether the keyword occurred at all.
func (r *SearchResult) Found() bool {
	return len(r.Matches) > 0
}

// String renders one "Line N: text" entry per match, or a not-found notice.
func (r *SearchResult) String() string {
	if !r.Found() {
		return fmt.Sprintf("Keyword '%s' not found in %s", r.Keyword, r.Path)
	}

	var builder strings.Builder
	for i, match := range r.Matches {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("Line %d: %s", match.LineNumber, strings.TrimSpace(match.LineText)))
	}
	return builder.String()
}

// lineBreaks folds "\r\n" and a lone "\r" into "\n".
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// findMatchingLines splits content into lines and keeps those containing keyword,
// ignoring case. "\n", "\r\n" and a lone "\r" all end a line.
func findMatchingLines(content string, keyword string) []LineMatch {
	keywordLower := strings.ToLower(keyword)

	var matches []LineMatch
	for lineIdx, line := range strings.Split(lineBreaks.Replace(content), "\n") {
		if !strings.Contains(strings.ToLower(line), keywordLower) {
			continue
		}
		matches = append(matches, LineMatch{
			LineNumber: lineIdx + 1,
			LineText:   line,
		})
	}
	return matches
}
