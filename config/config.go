// Package config holds the server settings and their layered loading:
// defaults, then a TOML file, then MCP_DOCS_* environment variables.
// Command-line flags are applied on top by the caller.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
	DefaultHTTPAddr          = ":8000"
	DefaultIgnoreFile        = ".docignore"
	DefaultLogLevel          = "info"
)

// Config is the full server configuration.
type Config struct {
	DocsDir     string `toml:"docs_dir"`
	MaxFileSize int64  `toml:"max_file_size"`

	LogLevel string `toml:"log_level"`
	// LogFile receives a copy of the log in addition to stderr. Empty disables it.
	LogFile string `toml:"log_file"`

	HTTPAddr string `toml:"http_addr"`

	// RespectIgnore filters listings through the ignore file, .gitignore and Exclude.
	RespectIgnore bool     `toml:"respect_ignore"`
	IgnoreFile    string   `toml:"ignore_file"`
	Exclude       []string `toml:"exclude"`
	// Watch reloads ignore rules when ignore files change. Only used with RespectIgnore.
	Watch bool `toml:"watch"`
}

// Default returns the built-in configuration. DocsDir is ./docs under the working directory.
func Default() *Config {
	return &Config{
		DocsDir:     defaultDocsDir(),
		MaxFileSize: DefaultMaxFileSize,
		LogLevel:    DefaultLogLevel,
		LogFile:     defaultLogFile(),
		HTTPAddr:    DefaultHTTPAddr,
		IgnoreFile:  DefaultIgnoreFile,
		Watch:       true,
	}
}

func defaultDocsDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "docs"
	}
	return filepath.Join(cwd, "docs")
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mcp", "logs", "docserver-mcp.log")
}

// SlogLevel converts LogLevel to a slog.Level. Unknown values map to Info;
// Validate rejects them beforehand.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PrepareDocsDir creates the documents directory if needed and returns its absolute path.
func (c *Config) PrepareDocsDir() (string, error) {
	absDir, err := filepath.Abs(c.DocsDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", err
	}
	return absDir, nil
}
