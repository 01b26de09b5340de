package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaasanen/nas-janitor/internal/logging"
)

func TestRunDryRunCountsSubfolders(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"invoices", "letters"} {
		if err := os.Mkdir(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Plain files at the root are not importable folders.
	if err := os.WriteFile(filepath.Join(root, "stray.pdf"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	summary, err := Run(context.Background(), root, Options{
		Container:  "paperless",
		ConsumeDir: t.TempDir(),
		DryRun:     true,
	}, logging.NewLogger(true, false))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Imported != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 2 imported, 0 failed", summary)
	}
}

func TestRunMissingRoot(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{
		DryRun: true,
	}, logging.NewLogger(true, false))
	if err == nil {
		t.Error("Run() accepted a missing root")
	}
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "doc.pdf"), []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy")
	if err := copyTree(src, dst); err != nil {
		t.Fatalf("copyTree() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "sub", "doc.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("copied content = %q", data)
	}
}
