package access

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/docserver-mcp/docerr"
	"github.com/lexandro/docserver-mcp/pathguard"
)

// Filter excludes entries from directory listings. Reads are never filtered.
type Filter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Options configures an Accessor.
type Options struct {
	Filter Filter // optional
}

// Accessor performs read-only filesystem operations below a guarded root.
// Every call resolves its path through the guard before touching the disk.
type Accessor struct {
	guard  *pathguard.Guard
	filter Filter
}

// New creates an Accessor confined to guard's root.
func New(guard *pathguard.Guard, options Options) *Accessor {
	return &Accessor{
		guard:  guard,
		filter: options.Filter,
	}
}

// Root returns the canonical root directory.
func (a *Accessor) Root() string {
	return a.guard.Root()
}

// Stat returns file info for relativePath after confinement checks.
func (a *Accessor) Stat(ctx context.Context, relativePath string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, docerr.IO("stat", relativePath, err)
	}
	absolutePath, err := a.guard.Resolve(relativePath)
	if err != nil {
		return nil, err
	}
	return stat(relativePath, absolutePath, docerr.FileNotFound)
}

// Read returns the decoded content of a regular file. A positive maxSize is
// enforced from the file's metadata before any content is read, and again
// while reading in case the file grows.
func (a *Accessor) Read(ctx context.Context, relativePath string, enc Encoding, maxSize int64) (string, error) {
	absolutePath, err := a.guard.Resolve(relativePath)
	if err != nil {
		return "", err
	}

	info, err := stat(relativePath, absolutePath, docerr.FileNotFound)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", docerr.NotAFile(relativePath)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", docerr.TooLarge(relativePath, info.Size(), maxSize)
	}

	if err := ctx.Err(); err != nil {
		return "", docerr.IO("read file", relativePath, err)
	}

	f, err := os.Open(absolutePath)
	if err != nil {
		if isNotExist(err) {
			return "", docerr.FileNotFound(relativePath)
		}
		return "", docerr.IO("read file", relativePath, err)
	}
	defer f.Close()

	var reader io.Reader = &contextReader{ctx: ctx, r: f}
	if maxSize > 0 {
		reader = io.LimitReader(reader, maxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", docerr.IO("read file", relativePath, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", docerr.TooLarge(relativePath, int64(len(data)), maxSize)
	}

	text, err := decode(data, enc)
	if err != nil {
		return "", docerr.Decode(relativePath, string(enc), err)
	}
	return text, nil
}

// ListFiles returns the regular files below relativeDir whose name matches
// pattern, as sorted root-relative forward-slash paths. A pattern without a
// slash matches base names at any depth; a pattern with a slash matches the
// path relative to relativeDir. Doublestar syntax ("**") is supported.
func (a *Accessor) ListFiles(ctx context.Context, relativeDir string, pattern string) ([]string, error) {
	if relativeDir == "" {
		relativeDir = "."
	}
	if pattern == "" {
		pattern = "*"
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, docerr.InvalidInput("invalid glob pattern: %s", pattern)
	}

	absoluteDir, err := a.guard.Resolve(relativeDir)
	if err != nil {
		return nil, err
	}

	info, err := stat(relativeDir, absoluteDir, docerr.DirectoryNotFound)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, docerr.NotADirectory(relativeDir)
	}

	matchBaseName := !strings.Contains(pattern, "/")
	files := make([]string, 0)

	err = filepath.WalkDir(absoluteDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absoluteDir {
				return walkErr
			}
			return nil // Skip entries that can't be read
		}

		if d.IsDir() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != absoluteDir && a.filter != nil && a.filter.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if a.filter != nil && a.filter.ShouldIgnore(path) {
			return nil
		}
		if !a.isListableFile(path, d) {
			return nil
		}

		subject := d.Name()
		if !matchBaseName {
			sub, err := filepath.Rel(absoluteDir, path)
			if err != nil {
				return nil
			}
			subject = filepath.ToSlash(sub)
		}
		matched, err := doublestar.Match(pattern, subject)
		if err != nil || !matched {
			return nil
		}

		rel, err := a.guard.Rel(path)
		if err != nil {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, docerr.IO("list directory", relativeDir, err)
	}

	sort.Strings(files)
	return files, nil
}

// isListableFile accepts regular files, and symlinks whose target is a regular
// file that stays inside the root.
func (a *Accessor) isListableFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	rel, err := a.guard.Rel(path)
	if err != nil {
		return false
	}
	target, err := a.guard.Resolve(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

func stat(relativePath, absolutePath string, notFound func(string) *docerr.Error) (fs.FileInfo, error) {
	info, err := os.Stat(absolutePath)
	if err != nil {
		if isNotExist(err) {
			return nil, notFound(relativePath)
		}
		return nil, docerr.IO("stat", relativePath, err)
	}
	return info, nil
}

// isNotExist treats "a path component is a file" the same as a missing path.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
