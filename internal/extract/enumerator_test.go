package extract

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jdsort/internal/model"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
}

func names(files []model.FileDescriptor) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	sort.Strings(out)
	return out
}

func TestEnumerate_Basic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Report.PDF"), 10)
	writeFile(t, filepath.Join(root, "photos", "cat.jpg"), 20)
	writeFile(t, filepath.Join(root, "notes"), 5)

	result, err := NewEnumerator(Options{}, nil).Enumerate(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, []string{"Report.PDF", "cat.jpg", "notes"}, names(result.Files))
	require.Equal(t, 1, result.Directories)
	require.EqualValues(t, 35, result.TotalSize)

	for _, f := range result.Files {
		switch f.Name {
		case "Report.PDF":
			require.Equal(t, "pdf", f.Extension)
			require.Equal(t, "application/pdf", f.MimeType)
			require.EqualValues(t, 10, f.Size)
			require.Equal(t, filepath.Join(root, "Report.PDF"), f.Path)
		case "cat.jpg":
			require.Equal(t, "jpg", f.Extension)
			require.Equal(t, "image/jpeg", f.MimeType)
		case "notes":
			require.Empty(t, f.Extension)
			require.Empty(t, f.MimeType)
		}
	}
}

func TestEnumerate_Exclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), 1)
	writeFile(t, filepath.Join(root, "debug.log"), 1)
	writeFile(t, filepath.Join(root, ".git", "HEAD"), 1)
	writeFile(t, filepath.Join(root, "node_modules", "x", "index.js"), 1)
	writeFile(t, filepath.Join(root, "big.zip"), 2*1024*1024)
	writeFile(t, filepath.Join(root, LockFileName), 0)

	opts := OptionsFromSettings(model.DefaultSettings())
	opts.MaxFileSize = 1024 * 1024

	result, err := NewEnumerator(opts, nil).Enumerate(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, []string{"keep.txt"}, names(result.Files))
	// debug.log, .git, node_modules, big.zip, lock file
	require.Equal(t, 5, result.Excluded)
}

func TestEnumerate_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "one.txt"), 1)
	writeFile(t, filepath.Join(root, "a", "b", "two.txt"), 1)
	writeFile(t, filepath.Join(root, "a", "b", "c", "three.txt"), 1)

	result, err := NewEnumerator(Options{MaxDepth: 2}, nil).Enumerate(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, []string{"one.txt"}, names(result.Files))
	require.Equal(t, 2, result.Directories)
}

func TestEnumerate_NotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	writeFile(t, file, 1)

	_, err := NewEnumerator(Options{}, nil).Enumerate(context.Background(), file)
	require.Error(t, err)

	_, err = NewEnumerator(Options{}, nil).Enumerate(context.Background(), filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestEnumerate_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnumerator(Options{}, nil).Enumerate(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDescribe(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "cafe\u0301.PNG")
	writeFile(t, path, 3)

	fd, err := Describe(path)
	require.NoError(t, err)

	require.Equal(t, "caf\u00e9.PNG", fd.Name)
	require.Equal(t, "png", fd.Extension)
	require.Equal(t, "image/png", fd.MimeType)
	require.EqualValues(t, 3, fd.Size)
	require.Equal(t, path, fd.Path)

	_, err = Describe(root)
	require.Error(t, err)
}
