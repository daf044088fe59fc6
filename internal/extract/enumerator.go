// Package extract turns a directory tree into file descriptors.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// LockFileName is the watcher's lock file; it is never enumerated
const LockFileName = ".jdsort.lock"

// DefaultMaxDepth bounds how far below the root the walk descends
const DefaultMaxDepth = 10

// Options filter what the enumerator yields
type Options struct {
	MaxDepth           int
	MaxFileSize        int64 // bytes; 0 means no cap
	ExcludedExtensions []string
	ExcludedPaths      []string // base names of files or directories
}

// OptionsFromSettings applies the user's exclusions and size cap
func OptionsFromSettings(s model.Settings) Options {
	return Options{
		MaxDepth:           DefaultMaxDepth,
		MaxFileSize:        s.MaxFileSizeMB * 1024 * 1024,
		ExcludedExtensions: s.ExcludedExtensions,
		ExcludedPaths:      s.ExcludedPaths,
	}
}

// Result summarizes one walk
type Result struct {
	Root        string                 `json:"root"`
	Files       []model.FileDescriptor `json:"files"`
	Directories int                    `json:"directories"`
	TotalSize   int64                  `json:"total_size"`
	Excluded    int                    `json:"excluded"`
	Skipped     int                    `json:"skipped"`
	Duration    time.Duration          `json:"duration"`
}

// Enumerator walks directory trees
type Enumerator struct {
	opts       Options
	extensions map[string]bool
	paths      map[string]bool
	logger     *zap.Logger
}

// NewEnumerator creates a new enumerator
func NewEnumerator(opts Options, logger *zap.Logger) *Enumerator {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Enumerator{
		opts:       opts,
		extensions: make(map[string]bool),
		paths:      map[string]bool{LockFileName: true},
		logger:     logger,
	}
	for _, ext := range opts.ExcludedExtensions {
		e.extensions[taxonomy.NormalizeExtension(ext)] = true
	}
	for _, p := range opts.ExcludedPaths {
		e.paths[p] = true
	}
	return e
}

// Enumerate walks root and returns a descriptor for every regular file that
// passes the filters. Unreadable entries are logged and counted, never fatal.
func (e *Enumerator) Enumerate(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	result := &Result{Root: root, Files: []model.FileDescriptor{}}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			e.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			result.Skipped++
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if e.paths[d.Name()] {
			result.Excluded++
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			result.Directories++
			if depth(root, path) >= e.opts.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fd, err := e.describe(path, d)
		if err != nil {
			e.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			result.Skipped++
			return nil
		}

		if e.excluded(fd) {
			result.Excluded++
			return nil
		}

		result.Files = append(result.Files, fd)
		result.TotalSize += fd.Size
		return nil
	})

	result.Duration = time.Since(start)

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return result, walkErr
		}
		return result, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	e.logger.Debug("enumerated directory",
		zap.String("root", root),
		zap.Int("files", len(result.Files)),
		zap.Int("excluded", result.Excluded),
		zap.Int("skipped", result.Skipped),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func (e *Enumerator) excluded(fd model.FileDescriptor) bool {
	if e.extensions[fd.Extension] {
		return true
	}
	return e.opts.MaxFileSize > 0 && fd.Size > e.opts.MaxFileSize
}

func (e *Enumerator) describe(path string, d fs.DirEntry) (model.FileDescriptor, error) {
	info, err := d.Info()
	if err != nil {
		return model.FileDescriptor{}, err
	}
	return newDescriptor(path, info.Size()), nil
}

// Describe builds a descriptor for a single file
func Describe(path string) (model.FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileDescriptor{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return model.FileDescriptor{}, fmt.Errorf("%s is a directory", path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return newDescriptor(path, info.Size()), nil
}

func newDescriptor(path string, size int64) model.FileDescriptor {
	name := norm.NFC.String(filepath.Base(path))
	ext := filepath.Ext(name)

	return model.FileDescriptor{
		Path:      path,
		Name:      name,
		Extension: taxonomy.NormalizeExtension(ext),
		Size:      size,
		MimeType:  mimeType(ext),
	}
}

// mimeType returns the bare media type for an extension, or "" if unknown
func mimeType(ext string) string {
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension(strings.ToLower(ext))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
