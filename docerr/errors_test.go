package docerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"path traversal", PathTraversal("../x"), KindPathTraversal},
		{"wrapped not found", fmt.Errorf("listing: %w", DirectoryNotFound("missing")), KindNotFound},
		{"too large", TooLarge("a.txt", 20, 10), KindTooLarge},
		{"invalid input", InvalidInput("path cannot be empty"), KindInvalidInput},
		{"foreign error", errors.New("boom"), KindIOError},
		{"nil", nil, KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("reading: %w", NotAFile("subdir"))

	assert.ErrorIs(t, err, ErrNotAFile)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestError_UnwrapCause(t *testing.T) {
	err := IO("read file", "doc.txt", context.Canceled)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrIO)
}

func TestTooLarge_ReportsSizeAndLimit(t *testing.T) {
	err := TooLarge("big.txt", 2048, 1024)

	assert.Equal(t, "file too large: 2048 bytes (max: 1024 bytes)", err.Error())
	assert.Equal(t, int64(2048), err.Size)
	assert.Equal(t, int64(1024), err.Limit)
}

func TestInvalidRoot_Messages(t *testing.T) {
	missing := InvalidRoot("/nope", errors.New("stat failed"))
	require.Contains(t, missing.Error(), "does not exist")

	notDir := InvalidRoot("/file.txt", fmt.Errorf("%w: /file.txt", ErrNotADirectory))
	require.Contains(t, notDir.Error(), "not a directory")
	assert.Equal(t, KindInvalidRoot, KindOf(notDir))
}

func TestIsClassified(t *testing.T) {
	assert.True(t, IsClassified(Decode("a.txt", "utf-8", errors.New("bad byte"))))
	assert.False(t, IsClassified(errors.New("plain")))
}

func TestIO_NamesOperation(t *testing.T) {
	err := IO("list directory", "notes", errors.New("permission denied"))

	assert.Equal(t, "failed to list directory: permission denied", err.Error())
	assert.Equal(t, "notes", err.Path)
	assert.Equal(t, KindIOError, KindOf(err))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "None", KindNone.String())
	assert.Equal(t, "PathTraversal", KindPathTraversal.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
