// Package docerr defines the closed set of error kinds raised by the document core.
// Front ends switch on Kind to pick a transport-specific response.
package docerr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a document access failure.
type Kind int

const (
	// KindNone is reported for a nil error.
	KindNone Kind = iota
	KindIOError
	KindInvalidRoot
	KindPathTraversal
	KindNotFound
	KindNotAFile
	KindNotADirectory
	KindTooLarge
	KindDecodeError
	KindInvalidInput
)

var kindNames = map[Kind]string{
	KindNone:          "None",
	KindIOError:       "IOError",
	KindInvalidRoot:   "InvalidRoot",
	KindPathTraversal: "PathTraversal",
	KindNotFound:      "NotFound",
	KindNotAFile:      "NotAFile",
	KindNotADirectory: "NotADirectory",
	KindTooLarge:      "TooLarge",
	KindDecodeError:   "DecodeError",
	KindInvalidInput:  "InvalidInput",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors, one per kind. Every *Error matches the sentinel of its kind with errors.Is.
var (
	ErrIO            = errors.New("i/o error")
	ErrInvalidRoot   = errors.New("invalid root directory")
	ErrPathTraversal = errors.New("path traversal detected")
	ErrNotFound      = errors.New("not found")
	ErrNotAFile      = errors.New("not a regular file")
	ErrNotADirectory = errors.New("not a directory")
	ErrTooLarge      = errors.New("file too large")
	ErrDecode        = errors.New("decode error")
	ErrInvalidInput  = errors.New("invalid input")
)

var sentinels = map[Kind]error{
	KindIOError:       ErrIO,
	KindInvalidRoot:   ErrInvalidRoot,
	KindPathTraversal: ErrPathTraversal,
	KindNotFound:      ErrNotFound,
	KindNotAFile:      ErrNotAFile,
	KindNotADirectory: ErrNotADirectory,
	KindTooLarge:      ErrTooLarge,
	KindDecodeError:   ErrDecode,
	KindInvalidInput:  ErrInvalidInput,
}

// Error is a classified failure. Only the fields relevant to Kind are set.
type Error struct {
	Kind     Kind
	Path     string // caller-supplied relative path, when one is involved
	Size     int64  // TooLarge: actual size in bytes
	Limit    int64  // TooLarge: configured limit in bytes
	Encoding string // DecodeError: encoding that failed
	Cause    error

	msg string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf classifies err. A nil error is KindNone; errors that did not originate
// here are reported as KindIOError.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindIOError
}

// IsClassified reports whether err carries a Kind assigned by this package.
func IsClassified(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

func InvalidRoot(root string, cause error) *Error {
	msg := fmt.Sprintf("base directory does not exist: %s", root)
	if errors.Is(cause, ErrNotADirectory) {
		msg = fmt.Sprintf("base path is not a directory: %s", root)
	}
	return &Error{Kind: KindInvalidRoot, Path: root, Cause: cause, msg: msg}
}

func PathTraversal(relativePath string) *Error {
	return &Error{
		Kind: KindPathTraversal,
		Path: relativePath,
		msg:  fmt.Sprintf("access denied: path traversal detected for '%s'", relativePath),
	}
}

func FileNotFound(relativePath string) *Error {
	return &Error{Kind: KindNotFound, Path: relativePath, msg: fmt.Sprintf("file not found: %s", relativePath)}
}

func DirectoryNotFound(relativePath string) *Error {
	return &Error{Kind: KindNotFound, Path: relativePath, msg: fmt.Sprintf("directory not found: %s", relativePath)}
}

func NotAFile(relativePath string) *Error {
	return &Error{Kind: KindNotAFile, Path: relativePath, msg: fmt.Sprintf("path is not a file: %s", relativePath)}
}

func NotADirectory(relativePath string) *Error {
	return &Error{Kind: KindNotADirectory, Path: relativePath, msg: fmt.Sprintf("path is not a directory: %s", relativePath)}
}

func TooLarge(relativePath string, size, limit int64) *Error {
	return &Error{
		Kind:  KindTooLarge,
		Path:  relativePath,
		Size:  size,
		Limit: limit,
		msg:   fmt.Sprintf("file too large: %d bytes (max: %d bytes)", size, limit),
	}
}

func Decode(relativePath, encoding string, cause error) *Error {
	return &Error{
		Kind:     KindDecodeError,
		Path:     relativePath,
		Encoding: encoding,
		Cause:    cause,
		msg:      fmt.Sprintf("failed to decode file with encoding '%s': %v", encoding, cause),
	}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, msg: fmt.Sprintf(format, args...)}
}

// IO reports a failed filesystem operation; op names it, as in "read file" or "list directory".
func IO(op, relativePath string, cause error) *Error {
	return &Error{Kind: KindIOError, Path: relativePath, Cause: cause, msg: fmt.Sprintf("failed to %s: %v", op, cause)}
}
