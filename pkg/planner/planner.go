// Package planner implements the size-match pruning planner: it compares
// a staging tree against the media library by file size within a
// tolerance and plans the removal of top-level staging folders none of
// whose files matched anything in the library.
//
// Planning is strictly read-only. The removal itself lives in a
// separately generated, separately confirmed script (pkg/script), so a
// plan can be regenerated and reviewed as often as needed.
package planner

import (
	"context"
	"fmt"
	"os"

	"github.com/jlaasanen/nas-janitor/internal/fsutil"
	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/internal/walker"
)

type Planner struct {
	log *logging.Logger
}

func NewPlanner(log *logging.Logger) *Planner {
	return &Planner{log: log}
}

// Plan walks both trees and produces the full planning outcome. The two
// roots are validated before any traversal; a bad root is a
// configuration error and nothing is scanned. Per-file traversal errors
// are warned about and skipped, so the plan completes on whatever the
// walks could see.
func (p *Planner) Plan(ctx context.Context, sourceRoot, mediaRoot string, opts Options) (*Outcome, error) {
	if opts.ToleranceBytes < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %d", opts.ToleranceBytes)
	}

	walkOpts := walker.Options{
		Extensions: opts.Extensions,
		Excludes:   opts.Excludes,
		Warn:       p.log.Warn,
	}

	sourceWalker, err := walker.NewWalker(sourceRoot, walkOpts)
	if err != nil {
		return nil, fmt.Errorf("source path: %w", err)
	}
	mediaWalker, err := walker.NewWalker(mediaRoot, walkOpts)
	if err != nil {
		return nil, fmt.Errorf("media path: %w", err)
	}

	mediaFiles, err := mediaWalker.Walk()
	if err != nil {
		return nil, fmt.Errorf("scan media tree: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := BuildSizeIndex(toRecords(mediaFiles))
	if opts.Verbose {
		p.log.Debug("indexed %d media files (%d distinct sizes)", len(mediaFiles), index.Len())
	}

	sourceFiles, err := sourceWalker.Walk()
	if err != nil {
		return nil, fmt.Errorf("scan source tree: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := MatchRecords(toRecords(sourceFiles), index, opts.ToleranceBytes)

	matched := 0
	for _, res := range results {
		switch res.Kind {
		case Matched:
			matched++
			if opts.Verbose {
				p.log.Debug("match: %s (%s) ~ %s", res.Record.Path,
					logging.FormatBytes(res.Record.Size), res.MediaPath)
			}
		default:
			if opts.Verbose {
				p.log.Debug("no match: %s (%s)", res.Record.Path,
					logging.FormatBytes(res.Record.Size))
			}
		}
	}

	plan := BuildPlan(results, sourceWalker.Root(), pathExists, fsutil.DirSize)

	return &Outcome{
		SourceRoot:     sourceWalker.Root(),
		MediaRoot:      mediaWalker.Root(),
		Results:        results,
		MatchedCount:   matched,
		FolderHasMatch: FolderVerdicts(results),
		Plan:           plan,
	}, nil
}

func toRecords(files []walker.FileInfo) []FileRecord {
	records := make([]FileRecord, len(files))
	for i, f := range files {
		records[i] = FileRecord{Path: f.Path, RelPath: f.RelPath, Size: f.Size}
	}
	return records
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
