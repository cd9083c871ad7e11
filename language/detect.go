package language

import (
	"path/filepath"
	"strings"
)

// Unknown is reported for files whose format is not recognized.
const Unknown = "Unknown"

// ExtensionToFormat maps file extensions (without dot) to document format names.
var ExtensionToFormat = map[string]string{
	// Prose
	"txt": "Plain Text", "text": "Plain Text", "log": "Plain Text",
	"md": "Markdown", "markdown": "Markdown", "mdx": "Markdown",
	"rst": "reStructuredText", "org": "Org", "tex": "LaTeX", "rtf": "Rich Text",
	"adoc": "AsciiDoc", "asciidoc": "AsciiDoc",
	// Markup
	"html": "HTML", "htm": "HTML", "xhtml": "HTML",
	"xml": "XML", "xsl": "XML", "svg": "XML",
	// Data / Config
	"json": "JSON", "jsonc": "JSON", "jsonl": "JSON",
	"yaml": "YAML", "yml": "YAML", "toml": "TOML",
	"ini": "INI", "cfg": "INI", "conf": "INI", "properties": "Properties",
	"csv": "CSV", "tsv": "CSV",
	// Code samples commonly kept next to docs
	"go": "Go", "py": "Python", "js": "JavaScript", "ts": "TypeScript",
	"sh": "Shell", "bash": "Shell", "sql": "SQL",
}

// DetectFormat returns the document format for a file path based on its extension.
// Returns Unknown if the extension is not recognized.
func DetectFormat(filePath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if ext == "" {
		switch strings.ToLower(filepath.Base(filePath)) {
		case "readme", "license", "changelog", "authors", "notice", "todo":
			return "Plain Text"
		case "makefile", "dockerfile":
			return "Build File"
		}
		return Unknown
	}

	if format, ok := ExtensionToFormat[ext]; ok {
		return format
	}
	return Unknown
}
