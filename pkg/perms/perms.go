// Package perms resets ownership and permissions across a tree, the
// way Unraid's newperms does after array shuffles leave files owned by
// the wrong user.
package perms

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/jlaasanen/nas-janitor/internal/fsutil"
	"github.com/jlaasanen/nas-janitor/internal/logging"
)

// Options control a permission reset run
type Options struct {
	// UID and GID to apply. -1 leaves ownership untouched.
	UID int
	GID int
	// DirMode and FileMode are the permission bits to apply
	DirMode  os.FileMode
	FileMode os.FileMode
	// DryRun reports would-be changes without applying them
	DryRun bool
	// Progress enables a progress spinner on stderr
	Progress bool
}

// Summary is the result of one reset run
type Summary struct {
	Visited int64
	Changed int64
	Failed  int64
}

// Reset walks the tree and applies ownership and mode to every entry
// whose current state differs. Per-entry failures are warned about and
// counted; they never abort the run.
func Reset(ctx context.Context, root string, opts Options, log *logging.Logger) (*Summary, error) {
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
	if opts.Progress && !opts.DryRun {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("resetting permissions"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
		)
	}

	summary := &Summary{}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			summary.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		info, err := d.Info()
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			summary.Failed++
			return nil
		}

		// os.Chmod and os.Chown follow symlinks, so touching a link
		// would rewrite its target, which may live outside the tree.
		// Leave links alone, the same as chmod -R does.
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		summary.Visited++
		if bar != nil {
			_ = bar.Add(1)
		}

		wantMode := opts.FileMode
		if d.IsDir() {
			wantMode = opts.DirMode
		}

		changed, err := apply(path, info, wantMode, opts)
		if err != nil {
			log.Warn("failed on %s: %v", path, err)
			summary.Failed++
			return nil
		}
		if changed {
			summary.Changed++
		}
		return nil
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return summary, nil
}

func apply(path string, info os.FileInfo, wantMode os.FileMode, opts Options) (bool, error) {
	changed := false

	if info.Mode().Perm() != wantMode.Perm() {
		if opts.DryRun {
			fmt.Printf("would chmod %o %s\n", wantMode.Perm(), path)
		} else if err := os.Chmod(path, wantMode.Perm()); err != nil {
			return changed, err
		}
		changed = true
	}

	if opts.UID >= 0 || opts.GID >= 0 {
		uid, gid, ok := fsutil.Owner(info)
		wantUID, wantGID := opts.UID, opts.GID
		if wantUID < 0 {
			wantUID = uid
		}
		if wantGID < 0 {
			wantGID = gid
		}
		if !ok || uid != wantUID || gid != wantGID {
			if opts.DryRun {
				fmt.Printf("would chown %d:%d %s\n", wantUID, wantGID, path)
			} else if err := os.Chown(path, wantUID, wantGID); err != nil {
				return changed, err
			}
			changed = true
		}
	}

	return changed, nil
}
