package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables read by ApplyEnv.
const (
	EnvDocsDir     = "MCP_DOCS_DIR"
	EnvMaxFileSize = "MCP_DOCS_MAX_FILE_SIZE"
	EnvLogLevel    = "MCP_DOCS_LOG_LEVEL"
	EnvLogFile     = "MCP_DOCS_LOG_FILE"
	EnvHTTPAddr    = "MCP_DOCS_HTTP_ADDR"
)

// Load returns the defaults overlaid with the TOML file at path (if path is not empty)
// and then with the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile decodes the file directly over the current values, so keys present in
// the file override even with zero values and absent keys keep their defaults.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDocsDir); ok && v != "" {
		c.DocsDir = v
	}
	if v, ok := lookup(EnvMaxFileSize); ok && v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxFileSize, v, err)
		}
		c.MaxFileSize = size
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	// An explicitly empty log file disables file logging.
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok && v != "" {
		c.HTTPAddr = v
	}
	return nil
}
