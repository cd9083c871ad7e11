package tools

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/docserver-mcp/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult wraps plain text in a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult reports a failure inside the tool result rather than as a protocol error,
// so the client sees the message.
func errorResult(prefix string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%s: %v", prefix, err)}},
		IsError: true,
	}
}

// FormatDocumentList joins listed paths one per line.
func FormatDocumentList(files []string, directory string, pattern string) string {
	if len(files) == 0 {
		return fmt.Sprintf("No documents found in '%s' matching pattern '%s'", directory, pattern)
	}
	return strings.Join(files, "\n")
}

// FormatStatus renders a documents directory summary.
func FormatStatus(stats *document.Stats, uptime time.Duration, heapAlloc uint64) string {
	var builder strings.Builder

	builder.WriteString("=== docserver-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Documents directory: %s\n", stats.Root))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Documents: %d\n", stats.DocumentCount))
	builder.WriteString(fmt.Sprintf("Total size: %s\n", formatFileSize(stats.TotalSizeBytes)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s\n", formatFileSize(int64(heapAlloc))))

	if len(stats.Formats) > 0 {
		builder.WriteString("\nFormats:\n")

		type formatEntry struct {
			format string
			count  int
		}
		entries := make([]formatEntry, 0, len(stats.Formats))
		for format, count := range stats.Formats {
			entries = append(entries, formatEntry{format, count})
		}
		// count descending, then name for a stable order
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].format < entries[j].format
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.format, entry.count))
		}
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
