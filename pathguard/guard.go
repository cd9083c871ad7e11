package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lexandro/docserver-mcp/docerr"
)

// Guard confines path resolution to a single root directory.
// The root is fixed at construction; every Resolve call re-verifies its input.
type Guard struct {
	root string // absolute, cleaned, symlinks evaluated
}

// New creates a Guard for root. The root must exist and be a directory.
func New(root string) (*Guard, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, docerr.InvalidRoot(root, err)
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, docerr.InvalidRoot(root, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, docerr.InvalidRoot(root, err)
	}
	if !info.IsDir() {
		return nil, docerr.InvalidRoot(root, fmt.Errorf("%w: %s", docerr.ErrNotADirectory, resolved))
	}

	return &Guard{root: filepath.Clean(resolved)}, nil
}

// Root returns the canonical root directory.
func (g *Guard) Root() string {
	return g.root
}

// Resolve turns relativePath into an absolute path inside the root.
// The lexical check runs before any filesystem access, so "../../etc/passwd"
// is rejected without touching the disk. Symlinks in the existing part of the
// path are then evaluated and the result checked again.
func (g *Guard) Resolve(relativePath string) (string, error) {
	var lexical string
	if filepath.IsAbs(relativePath) {
		lexical = filepath.Clean(relativePath)
	} else {
		lexical = filepath.Join(g.root, relativePath)
	}

	if !g.contains(lexical) {
		return "", docerr.PathTraversal(relativePath)
	}

	resolved, err := evalExisting(lexical)
	if err != nil {
		return "", docerr.IO("resolve path", relativePath, err)
	}

	if !g.contains(resolved) {
		return "", docerr.PathTraversal(relativePath)
	}
	return resolved, nil
}

// Rel expresses an absolute path inside the root as a forward-slash relative path.
func (g *Guard) Rel(absolutePath string) (string, error) {
	if !g.contains(absolutePath) {
		return "", docerr.PathTraversal(absolutePath)
	}
	rel, err := filepath.Rel(g.root, absolutePath)
	if err != nil {
		return "", docerr.PathTraversal(absolutePath)
	}
	return filepath.ToSlash(rel), nil
}

// contains is a path-segment aligned prefix check: /docs contains /docs/a but not /docs-evil.
func (g *Guard) contains(path string) bool {
	if path == g.root {
		return true
	}
	prefix := g.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// evalExisting evaluates symlinks in the longest existing prefix of path and
// re-appends the missing tail, so a non-existent target still resolves to the
// location it would occupy.
func evalExisting(path string) (string, error) {
	existing := path
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			parts := append([]string{resolved}, tail...)
			return filepath.Join(parts...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return path, nil
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}
}
