// Package audit reports space usage for a tree with hard-link-aware
// accounting: apparent bytes count every path, unique bytes count each
// inode once, and the difference is what hard linking has saved.
package audit

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/jlaasanen/nas-janitor/internal/fsutil"
	"github.com/jlaasanen/nas-janitor/internal/logging"
)

// ExtensionStat aggregates usage for one file extension
type ExtensionStat struct {
	Extension string
	Count     int64
	Bytes     int64
}

// FolderStat aggregates usage for one top-level subfolder
type FolderStat struct {
	Name          string
	Files         int64
	ApparentBytes int64
	UniqueBytes   int64
}

// Summary is the result of one audit scan
type Summary struct {
	Root          string
	Files         int64
	Dirs          int64
	ApparentBytes int64
	UniqueBytes   int64
	Folders       []FolderStat
	Extensions    []ExtensionStat
}

// LinkedSavings is how many bytes hard links save versus fully
// duplicated copies
func (s *Summary) LinkedSavings() int64 {
	return s.ApparentBytes - s.UniqueBytes
}

// Options control an audit scan
type Options struct {
	// Top limits the extension breakdown length; 0 means 10
	Top int
	// Progress enables a scan progress spinner on stderr
	Progress bool
}

// Scan walks the tree rooted at root and accumulates the summary.
// Per-file errors are warned about and skipped.
func Scan(ctx context.Context, root string, opts Options, log *logging.Logger) (*Summary, error) {
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

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
		)
	}

	summary := &Summary{Root: absRoot}
	seen := make(map[fsutil.FileID]bool)
	folders := make(map[string]*FolderStat)
	exts := make(map[string]*ExtensionStat)

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != absRoot {
				summary.Dirs++
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			return nil
		}

		if bar != nil {
			_ = bar.Add(1)
		}

		size := info.Size()
		summary.Files++
		summary.ApparentBytes += size

		unique := size
		if id, ok := fsutil.ID(info); ok && fsutil.Nlink(info) > 1 {
			if seen[id] {
				unique = 0
			} else {
				seen[id] = true
			}
		}
		summary.UniqueBytes += unique

		rel, err := filepath.Rel(absRoot, path)
		if err == nil {
			if top, ok := topComponent(filepath.ToSlash(rel)); ok {
				st := folders[top]
				if st == nil {
					st = &FolderStat{Name: top}
					folders[top] = st
				}
				st.Files++
				st.ApparentBytes += size
				st.UniqueBytes += unique
			}
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if ext == "" {
			ext = "(none)"
		}
		es := exts[ext]
		if es == nil {
			es = &ExtensionStat{Extension: ext}
			exts[ext] = es
		}
		es.Count++
		es.Bytes += size

		return nil
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	for _, st := range folders {
		summary.Folders = append(summary.Folders, *st)
	}
	sort.Slice(summary.Folders, func(i, j int) bool {
		return summary.Folders[i].ApparentBytes > summary.Folders[j].ApparentBytes
	})

	for _, es := range exts {
		summary.Extensions = append(summary.Extensions, *es)
	}
	sort.Slice(summary.Extensions, func(i, j int) bool {
		return summary.Extensions[i].Bytes > summary.Extensions[j].Bytes
	})
	top := opts.Top
	if top <= 0 {
		top = 10
	}
	if len(summary.Extensions) > top {
		summary.Extensions = summary.Extensions[:top]
	}

	return summary, nil
}

// Render writes the audit report
func Render(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Space audit for %s\n\n", s.Root)
	fmt.Fprintf(w, "Files:            %d\n", s.Files)
	fmt.Fprintf(w, "Directories:      %d\n", s.Dirs)
	fmt.Fprintf(w, "Apparent size:    %s\n", logging.FormatBytes(s.ApparentBytes))
	fmt.Fprintf(w, "Unique size:      %s\n", logging.FormatBytes(s.UniqueBytes))
	fmt.Fprintf(w, "Hardlink savings: %s\n", logging.FormatBytes(s.LinkedSavings()))

	if len(s.Folders) > 0 {
		fmt.Fprintf(w, "\nPer top-level folder:\n")
		for _, f := range s.Folders {
			fmt.Fprintf(w, "  %-40s %10s apparent, %10s unique (%d files)\n",
				f.Name, logging.FormatBytes(f.ApparentBytes),
				logging.FormatBytes(f.UniqueBytes), f.Files)
		}
	}

	if len(s.Extensions) > 0 {
		fmt.Fprintf(w, "\nTop extensions by size:\n")
		for _, e := range s.Extensions {
			fmt.Fprintf(w, "  %-10s %10s (%d files)\n",
				e.Extension, logging.FormatBytes(e.Bytes), e.Count)
		}
	}
}

func topComponent(relPath string) (string, bool) {
	idx := strings.IndexByte(relPath, '/')
	if idx < 0 {
		return "", false
	}
	return relPath[:idx], true
}
