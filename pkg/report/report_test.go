package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jlaasanen/nas-janitor/pkg/planner"
)

func TestRenderEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, &planner.Outcome{
		SourceRoot: "/src",
		MediaRoot:  "/media",
	})

	out := buf.String()
	if !strings.Contains(out, "Nothing to remove.") {
		t.Errorf("report missing empty-plan notice:\n%s", out)
	}
}

func TestRenderAnnotatesVerdicts(t *testing.T) {
	outcome := &planner.Outcome{
		SourceRoot:   "/src",
		MediaRoot:    "/media",
		MatchedCount: 1,
		Results: []planner.MatchResult{
			{Record: planner.FileRecord{Path: "/src/MovieA/good.mkv", Size: 100}, Kind: planner.Matched, Folder: "MovieA"},
			{Record: planner.FileRecord{Path: "/src/MovieA/extra.mkv", Size: 50}, Kind: planner.UnmatchedInFolder, Folder: "MovieA"},
			{Record: planner.FileRecord{Path: "/src/clip.mp4", Size: 10}, Kind: planner.UnmatchedStandalone},
		},
		FolderHasMatch: map[string]bool{"MovieA": true},
		Plan: planner.Plan{
			Entries: []planner.Entry{
				{TargetPath: "/src/clip.mp4", Kind: planner.KindStandaloneFile, SizeBytes: 10},
			},
			TotalBytes: 10,
		},
	}

	var buf bytes.Buffer
	Render(&buf, outcome)
	out := buf.String()

	for _, want := range []string{
		"3 source file(s), 1 matched",
		"/src/MovieA/extra.mkv",
		"folder kept (has matches)",
		"Standalone unmatched files",
		"/src/clip.mp4",
		"Potential savings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
