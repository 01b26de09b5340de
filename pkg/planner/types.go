package planner

// FileRecord is a single recognized media file found during a traversal
type FileRecord struct {
	Path    string // Absolute path
	RelPath string // Relative to its tree root, forward slashes
	Size    int64
}

// MatchKind classifies a source record against the media size index
type MatchKind string

const (
	// Matched means a media file within tolerance exists
	Matched MatchKind = "matched"
	// UnmatchedInFolder means no media match and the file lives under a
	// top-level subfolder of the source root
	UnmatchedInFolder MatchKind = "unmatched"
	// UnmatchedStandalone means no media match and the file lies directly
	// under the source root, with no subfolder to group under
	UnmatchedStandalone MatchKind = "standalone"
)

// MatchResult is the outcome for one source-tree record
type MatchResult struct {
	Record    FileRecord
	Kind      MatchKind
	MediaPath string // Matching media file, set when Kind == Matched
	Folder    string // Top-level source subfolder, empty for standalone records
}

// EntryKind tells the removal stage how to treat a plan target
type EntryKind string

const (
	KindFolder         EntryKind = "folder"
	KindStandaloneFile EntryKind = "file"
)

// Entry is one planned removal
type Entry struct {
	TargetPath string
	Kind       EntryKind
	SizeBytes  int64
}

// Plan is the ordered removal plan for a run. It is rebuilt from the
// live trees on every run and never mutated in place.
type Plan struct {
	Entries    []Entry
	TotalBytes int64
}

// IsEmpty reports whether the plan contains nothing to remove
func (p Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Outcome bundles everything a single planning run produced
type Outcome struct {
	SourceRoot string
	MediaRoot  string

	Results      []MatchResult
	MatchedCount int

	// FolderHasMatch maps each top-level source subfolder that contained
	// at least one unmatched file to whether anything anywhere under it
	// matched. Folders mapped to false are removal candidates.
	FolderHasMatch map[string]bool

	Plan Plan
}

// Options control a planning run
type Options struct {
	// ToleranceBytes is the closed-interval size match window:
	// |sizeA - sizeB| <= ToleranceBytes.
	ToleranceBytes int64
	// Extensions is the recognized media extension allow-list
	Extensions []string
	// Excludes are walker patterns applied to both trees
	Excludes []string
	// Verbose enables per-file trace output. It never changes the
	// classification of any file.
	Verbose bool
}
