// Package ignore decides which files are hidden from document listings.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultIgnoreFile is the per-directory ignore file read next to .gitignore.
const DefaultIgnoreFile = ".docignore"

const gitIgnoreFile = ".gitignore"

// Matcher determines whether a path below the documents root is hidden from listings.
// It combines default patterns, .gitignore rules, the document ignore file, and custom patterns.
// Reload() acquires a write lock, ShouldIgnore()/ShouldIgnoreDir() acquire a read lock.
type Matcher struct {
	mu             sync.RWMutex
	rootDir        string
	ignoreFileName string
	gitIgnore      gitignore.GitIgnore
	docIgnore      gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	// RootDir must be the symlink-resolved documents root, since listed paths are below it.
	RootDir        string
	IgnoreFile     string // default DefaultIgnoreFile
	CustomPatterns []string
}

// NewMatcher creates an ignore matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:        options.RootDir,
		ignoreFileName: options.IgnoreFile,
		customPatterns: options.CustomPatterns,
	}
	if matcher.ignoreFileName == "" {
		matcher.ignoreFileName = DefaultIgnoreFile
	}

	matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, gitIgnoreFile), options.RootDir)
	matcher.docIgnore = loadIgnoreFile(filepath.Join(options.RootDir, matcher.ignoreFileName), options.RootDir)

	return matcher
}

// ShouldIgnore returns true if the file at absolutePath should not be listed.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	return m.shouldIgnore(absolutePath, false)
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	switch filepath.Base(absolutePath) {
	case ".git", ".svn", ".hg", "node_modules", "__pycache__",
		".idea", ".vscode", ".vs", ".cache", ".venv":
		return true
	}
	return m.shouldIgnore(absolutePath, true)
}

// IsIgnoreFile reports whether path is one of the root-level ignore files this matcher reads.
func (m *Matcher) IsIgnoreFile(path string) bool {
	if filepath.Dir(path) != filepath.Clean(m.rootDir) {
		return false
	}
	base := filepath.Base(path)
	return base == gitIgnoreFile || base == m.ignoreFileName
}

// Reload re-reads .gitignore and the document ignore file from disk.
// Used when the watcher detects changes to these files.
func (m *Matcher) Reload() {
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, gitIgnoreFile), m.rootDir)
	newDocIgnore := loadIgnoreFile(filepath.Join(m.rootDir, m.ignoreFileName), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
	m.docIgnore = newDocIgnore
}

func (m *Matcher) shouldIgnore(absolutePath string, isDir bool) bool {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)
	if relativePath == "." {
		return false
	}

	if matchesDefaultPatterns(relativePath) {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Relative() does not require the path to exist on disk
	for _, rules := range []gitignore.GitIgnore{m.gitIgnore, m.docIgnore} {
		if rules == nil {
			continue
		}
		if match := rules.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

// matchesDefaultPatterns checks the path against DefaultIgnorePatterns.
// Plain names match any path component; globs match the base name.
func matchesDefaultPatterns(relativePath string) bool {
	parts := strings.Split(strings.ToLower(relativePath), "/")
	baseNameLower := parts[len(parts)-1]

	for _, pattern := range DefaultIgnorePatterns {
		pattern = strings.ToLower(pattern)
		if !strings.ContainsAny(pattern, "*?[") {
			for _, part := range parts {
				if part == pattern {
					return true
				}
			}
			continue
		}

		if matched, err := doublestar.Match(pattern, baseNameLower); err == nil && matched {
			return true
		}
	}
	return false
}

// matchesCustomPatterns checks the relative path and its base name against the exclude globs.
func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses an io.Reader so the file handle is closed before returning.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
