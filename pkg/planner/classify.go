package planner

import (
	"path/filepath"
	"sort"
	"strings"
)

// TopLevelFolder returns the first path component of a forward-slash
// relative path. ok is false when the path has no directory component,
// meaning the file lies directly under the tree root.
func TopLevelFolder(relPath string) (string, bool) {
	idx := strings.IndexByte(relPath, '/')
	if idx < 0 {
		return "", false
	}
	return relPath[:idx], true
}

// MatchRecords classifies every source record against the media index.
// Every record yields exactly one result.
func MatchRecords(source []FileRecord, index *SizeIndex, toleranceBytes int64) []MatchResult {
	results := make([]MatchResult, 0, len(source))

	for _, rec := range source {
		folder, inFolder := TopLevelFolder(rec.RelPath)

		if media, ok := index.Lookup(rec.Size, toleranceBytes); ok {
			results = append(results, MatchResult{
				Record:    rec,
				Kind:      Matched,
				MediaPath: media.Path,
				Folder:    folder,
			})
			continue
		}

		if inFolder {
			results = append(results, MatchResult{
				Record: rec,
				Kind:   UnmatchedInFolder,
				Folder: folder,
			})
		} else {
			results = append(results, MatchResult{
				Record: rec,
				Kind:   UnmatchedStandalone,
			})
		}
	}

	return results
}

// FolderVerdicts derives, for every top-level folder that contained at
// least one unmatched file, whether anything under it matched. A single
// match anywhere in a folder's subtree vetoes its removal, however
// deeply nested, and however many siblings went unmatched.
func FolderVerdicts(results []MatchResult) map[string]bool {
	matchedFolders := make(map[string]bool)
	for _, res := range results {
		if res.Kind == Matched && res.Folder != "" {
			matchedFolders[res.Folder] = true
		}
	}

	verdicts := make(map[string]bool)
	for _, res := range results {
		if res.Kind == UnmatchedInFolder {
			verdicts[res.Folder] = matchedFolders[res.Folder]
		}
	}
	return verdicts
}

// ExistsFunc reports whether a path still exists at plan-emission time
type ExistsFunc func(path string) bool

// SizeFunc returns the recursive apparent byte size of a directory
type SizeFunc func(path string) int64

// BuildPlan turns match results into an ordered removal plan. Folders
// whose verdict is "no match anywhere" come first, sorted by name, then
// standalone unmatched files sorted by name. A candidate that no longer
// exists on disk is dropped, defending against a prior partial run.
func BuildPlan(results []MatchResult, sourceRoot string, exists ExistsFunc, dirSize SizeFunc) Plan {
	verdicts := FolderVerdicts(results)

	var folders []string
	for folder, hasMatch := range verdicts {
		if !hasMatch {
			folders = append(folders, folder)
		}
	}
	sort.Strings(folders)

	var plan Plan
	for _, folder := range folders {
		target := filepath.Join(sourceRoot, folder)
		if !exists(target) {
			continue
		}
		size := dirSize(target)
		plan.Entries = append(plan.Entries, Entry{
			TargetPath: target,
			Kind:       KindFolder,
			SizeBytes:  size,
		})
		plan.TotalBytes += size
	}

	var standalone []MatchResult
	for _, res := range results {
		if res.Kind == UnmatchedStandalone {
			standalone = append(standalone, res)
		}
	}
	sort.Slice(standalone, func(i, j int) bool {
		return standalone[i].Record.Path < standalone[j].Record.Path
	})

	for _, res := range standalone {
		if !exists(res.Record.Path) {
			continue
		}
		plan.Entries = append(plan.Entries, Entry{
			TargetPath: res.Record.Path,
			Kind:       KindStandaloneFile,
			SizeBytes:  res.Record.Size,
		})
		plan.TotalBytes += res.Record.Size
	}

	return plan
}
