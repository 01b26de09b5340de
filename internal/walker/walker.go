package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileInfo represents a file found during a walk
type FileInfo struct {
	Path    string // Absolute path
	RelPath string // Relative path from root, forward slashes
	Size    int64
	ModTime int64 // Unix timestamp
	Mode    os.FileMode
}

// WarnFunc receives non-fatal per-file errors encountered during a walk
type WarnFunc func(format string, args ...interface{})

// Options control which files a walk yields
type Options struct {
	// Extensions is a case-insensitive allow-list (without leading dot).
	// Empty means every file is yielded.
	Extensions []string
	// Excludes are doublestar patterns matched against the forward-slash
	// relative path. Patterns ending in "/" exclude whole directories.
	Excludes []string
	// Warn is called for per-file stat errors, which are skipped rather
	// than aborting the walk. Nil disables warnings.
	Warn WarnFunc
}

// Walker walks a directory tree with extension and exclude filtering
type Walker struct {
	root string
	opts Options
	exts map[string]bool
}

// NewWalker creates a new file walker. The root must exist and be a
// directory; anything else is a configuration error.
func NewWalker(root string, opts Options) (*Walker, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &Walker{
		root: absRoot,
		opts: opts,
		exts: exts,
	}, nil
}

// Root returns the absolute root of the walker
func (w *Walker) Root() string {
	return w.root
}

// Walk walks the file tree and returns matching files. Per-file errors
// (permission denied, races with concurrent deletion) are reported through
// the warn callback and the affected entry is skipped.
func (w *Walker) Walk() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			return fmt.Errorf("get relative path: %w", err)
		}

		// Convert to forward slashes for pattern matching
		relPathForward := filepath.ToSlash(relPath)

		if w.isExcluded(relPathForward) {
			return nil
		}

		if !w.wantExtension(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.warn("skipping %s: %v", path, err)
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: relPathForward,
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
			Mode:    info.Mode(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return files, nil
}

func (w *Walker) warn(format string, args ...interface{}) {
	if w.opts.Warn != nil {
		w.opts.Warn(format, args...)
	}
}

// wantExtension checks a path against the allow-list, case-insensitively
func (w *Walker) wantExtension(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return w.exts[ext]
}

// isExcluded checks if a path matches any exclude pattern
func (w *Walker) isExcluded(path string) bool {
	for _, pattern := range w.opts.Excludes {
		// Handle directory patterns (ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			if matched, _ := doublestar.Match(dirPattern, path); matched {
				return true
			}
			// Also check if any parent directory matches
			parts := strings.Split(path, "/")
			for i := 1; i <= len(parts); i++ {
				subPath := strings.Join(parts[:i], "/")
				if matched, _ := doublestar.Match(dirPattern, subPath); matched {
					return true
				}
			}
		} else {
			if matched, _ := doublestar.Match(pattern, path); matched {
				return true
			}
		}
	}
	return false
}
