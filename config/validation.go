package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate checks config values for correctness.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DocsDir) == "" {
		errs = append(errs, "docs_dir must not be empty")
	}
	if c.MaxFileSize < 1 {
		errs = append(errs, "max_file_size must be >= 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, "http_addr must not be empty")
	}
	if c.IgnoreFile == "" || strings.ContainsAny(c.IgnoreFile, `/\`) {
		errs = append(errs, "ignore_file must be a plain file name")
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Sprintf("exclude pattern %q is not a valid glob", pattern))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}
	return nil
}
