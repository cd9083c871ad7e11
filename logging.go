package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// setupLogger creates an slog.Logger writing to stderr and, when logFile is set, to that file too.
// stdout is never used: it carries the MCP stdio transport.
// The returned func closes the log file.
func setupLogger(level slog.Level, logFile string) (*slog.Logger, func()) {
	writer := io.Writer(os.Stderr)
	closeFn := func() {}

	if logFile != "" {
		f, err := openLogFile(logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, logging to stderr only\n", logFile, err)
		} else {
			writer = io.MultiWriter(os.Stderr, f)
			closeFn = func() { f.Close() }
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn
}

func openLogFile(logFile string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
