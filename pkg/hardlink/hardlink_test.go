package hardlink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlaasanen/nas-janitor/internal/logging"
)

var testExtensions = []string{"mkv", "mp4"}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestPlanner() *Planner {
	return NewPlanner(logging.NewLogger(true, false))
}

func TestCalculateFileChecksum(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty file", content: "", want: "0000000000000000"},
		{name: "hello world", content: "Hello, World!", want: "d0026cc17976e73b"},
		{name: "quick brown fox", content: "The quick brown fox jumps over the lazy dog", want: "f1b13f4ba1f1d0b5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f.mkv")
			writeFile(t, path, tt.content)
			got, err := calculateFileChecksum(path)
			if err != nil {
				t.Fatalf("calculateFileChecksum() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("calculateFileChecksum() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := calculateFileChecksum(filepath.Join(t.TempDir(), "missing.mkv")); err == nil {
		t.Error("calculateFileChecksum() succeeded on a missing file")
	}
}

func TestBuildPlanPairsIdenticalContent(t *testing.T) {
	source := t.TempDir()
	media := t.TempDir()

	writeFile(t, filepath.Join(media, "library", "movie.mkv"), "identical content")
	writeFile(t, filepath.Join(source, "staging", "movie.mkv"), "identical content")

	plan, err := newTestPlanner().BuildPlan(context.Background(), source, media, Options{
		Extensions: testExtensions,
	})
	if err != nil {
		t.Fatalf("BuildPlan() error: %v", err)
	}

	if len(plan.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(plan.Pairs))
	}
	pair := plan.Pairs[0]
	if pair.SourcePath != filepath.Join(source, "staging", "movie.mkv") {
		t.Errorf("SourcePath = %s", pair.SourcePath)
	}
	if pair.MediaPath != filepath.Join(media, "library", "movie.mkv") {
		t.Errorf("MediaPath = %s", pair.MediaPath)
	}
	if plan.TotalBytes != int64(len("identical content")) {
		t.Errorf("TotalBytes = %d", plan.TotalBytes)
	}
}

func TestBuildPlanRejectsSameSizeDifferentContent(t *testing.T) {
	source := t.TempDir()
	media := t.TempDir()

	writeFile(t, filepath.Join(media, "a.mkv"), "contentAA")
	writeFile(t, filepath.Join(source, "b.mkv"), "contentBB")

	plan, err := newTestPlanner().BuildPlan(context.Background(), source, media, Options{
		Extensions: testExtensions,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Pairs) != 0 {
		t.Errorf("planned a link for different content: %+v", plan.Pairs)
	}
}

func TestBuildPlanSkipsAlreadyLinked(t *testing.T) {
	source := t.TempDir()
	media := t.TempDir()

	mediaPath := filepath.Join(media, "movie.mkv")
	writeFile(t, mediaPath, "shared")
	if err := os.Link(mediaPath, filepath.Join(source, "movie.mkv")); err != nil {
		t.Skipf("hard links unavailable: %v", err)
	}

	plan, err := newTestPlanner().BuildPlan(context.Background(), source, media, Options{
		Extensions: testExtensions,
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.AlreadyLinked != 1 {
		t.Errorf("AlreadyLinked = %d, want 1", plan.AlreadyLinked)
	}
	if len(plan.Pairs) != 0 {
		t.Errorf("planned a link for an already linked file: %+v", plan.Pairs)
	}
}

func TestExecuteReplacesWithLink(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "library.mkv")
	sourcePath := filepath.Join(dir, "staging.mkv")
	writeFile(t, mediaPath, "payload")
	writeFile(t, sourcePath, "payload")

	exec := NewExecutor(logging.NewLogger(true, false), 2)
	results := exec.Execute(context.Background(), []Pair{
		{SourcePath: sourcePath, MediaPath: mediaPath, Size: 7},
	})

	if len(results) != 1 || results[0].Error != nil {
		t.Fatalf("Execute() = %+v", results)
	}

	mediaInfo, err := os.Stat(mediaPath)
	if err != nil {
		t.Fatal(err)
	}
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(mediaInfo, sourceInfo) {
		t.Error("source is not hard-linked to media after Execute()")
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("source content = %q after link", data)
	}
}

func TestExecuteReportsFailures(t *testing.T) {
	exec := NewExecutor(logging.NewLogger(true, false), 1)
	results := exec.Execute(context.Background(), []Pair{
		{SourcePath: "/does/not/exist/a.mkv", MediaPath: "/does/not/exist/b.mkv", Size: 1},
	})
	if len(results) != 1 || results[0].Error == nil {
		t.Errorf("Execute() = %+v, want one failed result", results)
	}
}
