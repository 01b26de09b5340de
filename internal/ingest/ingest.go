// Package ingest imports folders into the document-sync service. Each
// immediate subfolder of the given root is copied into the service's
// consume directory and the in-container importer is triggered through
// docker exec. Docker is treated as an opaque local boundary; a failed
// exec is a per-folder error, not a fatal one.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jlaasanen/nas-janitor/internal/logging"
)

// Options control an ingest run
type Options struct {
	Container  string
	ConsumeDir string
	DryRun     bool
}

// Summary is the result of one ingest run
type Summary struct {
	Imported int
	Failed   int
}

// Run imports every immediate subfolder of root
func Run(ctx context.Context, root string, opts Options, log *logging.Logger) (*Summary, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	summary := &Summary{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		src := filepath.Join(absRoot, entry.Name())
		dst := filepath.Join(opts.ConsumeDir, entry.Name())

		if opts.DryRun {
			log.Info("would import %s -> %s (container %s)", src, dst, opts.Container)
			summary.Imported++
			continue
		}

		if err := copyTree(src, dst); err != nil {
			log.Warn("copy %s: %v", src, err)
			summary.Failed++
			continue
		}

		if err := triggerImport(ctx, opts.Container); err != nil {
			log.Warn("import trigger for %s: %v", src, err)
			summary.Failed++
			continue
		}

		log.Info("imported %s", entry.Name())
		summary.Imported++
	}

	return summary, nil
}

// triggerImport pokes the document service's importer inside its
// container
func triggerImport(ctx context.Context, container string) error {
	cmd := exec.CommandContext(ctx, "docker", "exec", container, "document_importer")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker exec: %w (%s)", err, string(out))
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
