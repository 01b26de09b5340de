package planner

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestTopLevelFolder(t *testing.T) {
	tests := []struct {
		name    string
		relPath string
		want    string
		wantOK  bool
	}{
		{
			name:    "file in folder",
			relPath: "MovieA/file1.mkv",
			want:    "MovieA",
			wantOK:  true,
		},
		{
			name:    "deeply nested file",
			relPath: "MovieA/extras/behind/scenes.mkv",
			want:    "MovieA",
			wantOK:  true,
		},
		{
			name:    "standalone file",
			relPath: "clip.mp4",
			want:    "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TopLevelFolder(tt.relPath)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("TopLevelFolder(%q) = (%q, %v), want (%q, %v)",
					tt.relPath, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatchRecords(t *testing.T) {
	index := BuildSizeIndex([]FileRecord{
		{Path: "/media/movie.mkv", Size: 2000},
	})

	source := []FileRecord{
		{Path: "/src/MovieA/file1.mkv", RelPath: "MovieA/file1.mkv", Size: 1999},
		{Path: "/src/MovieB/file2.mkv", RelPath: "MovieB/file2.mkv", Size: 500},
		{Path: "/src/clip.mp4", RelPath: "clip.mp4", Size: 10},
	}

	got := MatchRecords(source, index, 5)

	want := []MatchResult{
		{Record: source[0], Kind: Matched, MediaPath: "/media/movie.mkv", Folder: "MovieA"},
		{Record: source[1], Kind: UnmatchedInFolder, Folder: "MovieB"},
		{Record: source[2], Kind: UnmatchedStandalone},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchRecords() = %+v, want %+v", got, want)
	}
}

func TestMatchRecordsOneResultPerRecord(t *testing.T) {
	index := BuildSizeIndex([]FileRecord{{Path: "/media/a.mkv", Size: 100}})
	source := []FileRecord{
		{Path: "/src/A/x.mkv", RelPath: "A/x.mkv", Size: 100},
		{Path: "/src/A/y.mkv", RelPath: "A/y.mkv", Size: 100},
		{Path: "/src/B/z.mkv", RelPath: "B/z.mkv", Size: 300},
	}

	results := MatchRecords(source, index, 0)
	if len(results) != len(source) {
		t.Fatalf("got %d results for %d records", len(results), len(source))
	}
}

func TestFolderVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		results []MatchResult
		want    map[string]bool
	}{
		{
			name: "matched sibling preserves the folder",
			results: []MatchResult{
				{Record: FileRecord{RelPath: "MovieA/good.mkv"}, Kind: Matched, Folder: "MovieA"},
				{Record: FileRecord{RelPath: "MovieA/extra.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieA"},
			},
			want: map[string]bool{"MovieA": true},
		},
		{
			name: "fully unmatched folder",
			results: []MatchResult{
				{Record: FileRecord{RelPath: "MovieB/file.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieB"},
			},
			want: map[string]bool{"MovieB": false},
		},
		{
			name: "standalone files never affect folder verdicts",
			results: []MatchResult{
				{Record: FileRecord{RelPath: "clip.mp4"}, Kind: UnmatchedStandalone},
				{Record: FileRecord{RelPath: "MovieC/file.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieC"},
			},
			want: map[string]bool{"MovieC": false},
		},
		{
			name: "fully matched folder yields no verdict entry",
			results: []MatchResult{
				{Record: FileRecord{RelPath: "MovieD/file.mkv"}, Kind: Matched, Folder: "MovieD"},
			},
			want: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FolderVerdicts(tt.results)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FolderVerdicts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPlan(t *testing.T) {
	results := []MatchResult{
		{Record: FileRecord{Path: "/src/MovieA/good.mkv", RelPath: "MovieA/good.mkv"}, Kind: Matched, Folder: "MovieA"},
		{Record: FileRecord{Path: "/src/MovieA/extra.mkv", RelPath: "MovieA/extra.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieA"},
		{Record: FileRecord{Path: "/src/MovieB/file.mkv", RelPath: "MovieB/file.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieB"},
		{Record: FileRecord{Path: "/src/clip.mp4", RelPath: "clip.mp4", Size: 10}, Kind: UnmatchedStandalone},
	}

	allExist := func(string) bool { return true }
	dirSize := func(string) int64 { return 500 }

	got := BuildPlan(results, "/src", allExist, dirSize)

	want := Plan{
		Entries: []Entry{
			{TargetPath: filepath.Join("/src", "MovieB"), Kind: KindFolder, SizeBytes: 500},
			{TargetPath: "/src/clip.mp4", Kind: KindStandaloneFile, SizeBytes: 10},
		},
		TotalBytes: 510,
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildPlan() = %+v, want %+v", got, want)
	}
}

func TestBuildPlanNeverIncludesFolderWithAnyMatch(t *testing.T) {
	// Regression: a folder with one matched file and one unmatched file
	// must never be planned for removal.
	results := []MatchResult{
		{Record: FileRecord{Path: "/src/MovieA/a.mkv", RelPath: "MovieA/a.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieA"},
		{Record: FileRecord{Path: "/src/MovieA/sub/b.mkv", RelPath: "MovieA/sub/b.mkv"}, Kind: Matched, Folder: "MovieA"},
	}

	got := BuildPlan(results, "/src", func(string) bool { return true }, func(string) int64 { return 1 })
	if !got.IsEmpty() {
		t.Errorf("BuildPlan() = %+v, want empty plan", got)
	}
}

func TestBuildPlanSkipsVanishedTargets(t *testing.T) {
	results := []MatchResult{
		{Record: FileRecord{Path: "/src/MovieB/file.mkv", RelPath: "MovieB/file.mkv"}, Kind: UnmatchedInFolder, Folder: "MovieB"},
		{Record: FileRecord{Path: "/src/clip.mp4", RelPath: "clip.mp4", Size: 10}, Kind: UnmatchedStandalone},
	}

	nothingExists := func(string) bool { return false }
	got := BuildPlan(results, "/src", nothingExists, func(string) int64 { return 1 })
	if !got.IsEmpty() {
		t.Errorf("BuildPlan() with vanished targets = %+v, want empty plan", got)
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	results := []MatchResult{
		{Record: FileRecord{Path: "/src/Zeta/f.mkv", RelPath: "Zeta/f.mkv"}, Kind: UnmatchedInFolder, Folder: "Zeta"},
		{Record: FileRecord{Path: "/src/Alpha/g.mkv", RelPath: "Alpha/g.mkv"}, Kind: UnmatchedInFolder, Folder: "Alpha"},
		{Record: FileRecord{Path: "/src/b.mp4", RelPath: "b.mp4", Size: 2}, Kind: UnmatchedStandalone},
		{Record: FileRecord{Path: "/src/a.mp4", RelPath: "a.mp4", Size: 1}, Kind: UnmatchedStandalone},
	}

	exists := func(string) bool { return true }
	size := func(string) int64 { return 100 }

	first := BuildPlan(results, "/src", exists, size)
	second := BuildPlan(results, "/src", exists, size)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("plans differ across runs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Entries[0].TargetPath != filepath.Join("/src", "Alpha") {
		t.Errorf("folders not sorted: first entry %s", first.Entries[0].TargetPath)
	}
}
