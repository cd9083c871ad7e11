package main

import (
	"context"
	"log/slog"

	"github.com/lexandro/docserver-mcp/watcher"
)

// ruleReloader is the part of the ignore matcher the watcher loop needs.
type ruleReloader interface {
	IsIgnoreFile(path string) bool
	Reload()
}

// handleWatcherEvents applies debounced batches until ctx is cancelled or events closes.
func handleWatcherEvents(ctx context.Context, events <-chan []watcher.DebouncedEvent, rules ruleReloader, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-events:
			if !ok {
				return
			}
			applyWatchBatch(batch, rules, logger)
		}
	}
}

// applyWatchBatch reloads ignore rules once if any ignore file changed in the batch.
// Documents are read from disk on every request, so other changes only get logged.
func applyWatchBatch(batch []watcher.DebouncedEvent, rules ruleReloader, logger *slog.Logger) bool {
	reload := false
	for _, event := range batch {
		if rules.IsIgnoreFile(event.Path) {
			reload = true
			continue
		}
		logger.Debug("document changed", "path", event.Path, "op", event.Op)
	}

	if reload {
		rules.Reload()
		logger.Info("ignore rules reloaded")
	}
	return reload
}
