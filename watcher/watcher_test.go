package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// suffixChecker ignores files ending in ".tmp" and directories named "skip".
type suffixChecker struct {
	ignoreFile string
}

func (c suffixChecker) ShouldIgnoreDir(path string) bool { return filepath.Base(path) == "skip" }
func (c suffixChecker) ShouldIgnore(path string) bool {
	return strings.HasSuffix(path, ".tmp") || filepath.Base(path) == c.ignoreFile
}
func (c suffixChecker) IsIgnoreFile(path string) bool { return filepath.Base(path) == c.ignoreFile }

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := NewWatcher(root, suffixChecker{ignoreFile: ".docignore"}, 20*time.Millisecond,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)
	return w
}

// collectPaths gathers reported paths until want is seen or the timeout expires.
func collectPaths(t *testing.T, w *Watcher, want string, timeout time.Duration) map[string]bool {
	t.Helper()
	seen := make(map[string]bool)
	deadline := time.After(timeout)
	for {
		select {
		case batch := <-w.Events():
			for _, event := range batch {
				seen[filepath.Base(event.Path)] = true
			}
			if seen[want] {
				return seen
			}
		case <-deadline:
			return seen
		}
	}
}

func Test_Watcher_ReportsFileChanges(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	seen := collectPaths(t, w, "notes.md", 2*time.Second)
	if !seen["notes.md"] {
		t.Fatal("expected an event for notes.md")
	}
}

func Test_Watcher_SkipsIgnoredFiles(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "scratch.tmp"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "marker.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	seen := collectPaths(t, w, "marker.md", 2*time.Second)
	if !seen["marker.md"] {
		t.Fatal("expected an event for marker.md")
	}
	if seen["scratch.tmp"] {
		t.Error("ignored file must not be reported")
	}
}

func Test_Watcher_AlwaysReportsIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, ".docignore"), []byte("*.draft\n"), 0644); err != nil {
		t.Fatal(err)
	}

	seen := collectPaths(t, w, ".docignore", 2*time.Second)
	if !seen[".docignore"] {
		t.Fatal("expected ignore file changes to be reported even though it matches ShouldIgnore")
	}
}

func Test_Watcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "guide")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "intro.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	seen := collectPaths(t, w, "intro.md", 2*time.Second)
	if !seen["intro.md"] {
		t.Fatal("expected an event for a file in a newly created directory")
	}
	if seen["guide"] {
		t.Error("directory creation itself must not be reported")
	}
}
