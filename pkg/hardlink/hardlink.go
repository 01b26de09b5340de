// Package hardlink deduplicates the staging tree against the media
// library: a staging file whose content already exists in the library is
// replaced with a hard link to the library copy, reclaiming its space
// without disturbing anything that still reads the staging path.
//
// Candidates are paired by exact byte size and confirmed by CRC64
// checksum of both files. Hard links require identical content, so size
// tolerance from the prune planner does not apply here.
package hardlink

import (
	"context"
	"fmt"
	"sync"

	"github.com/jlaasanen/nas-janitor/internal/fsutil"
	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/internal/walker"
)

// Pair is one planned link: the staging file to replace and the library
// file to link it to
type Pair struct {
	SourcePath string
	MediaPath  string
	Size       int64
	Checksum   string
}

// Plan is the outcome of a hardlink planning run
type Plan struct {
	Pairs []Pair
	// CrossDevice lists confirmed duplicates that cannot be linked
	// because the two paths live on different filesystems
	CrossDevice []Pair
	// AlreadyLinked counts staging files that already share an inode
	// with a library file
	AlreadyLinked int
	// TotalBytes is the space the planned links would reclaim
	TotalBytes int64
}

// Options control a hardlink planning run
type Options struct {
	Extensions  []string
	Excludes    []string
	Concurrency int
}

type Planner struct {
	log *logging.Logger
}

func NewPlanner(log *logging.Logger) *Planner {
	return &Planner{log: log}
}

// BuildPlan walks both trees and plans one link per confirmed duplicate.
// Checksum confirmation fans out across a bounded worker set; per-file
// read errors drop the candidate with a warning.
func (p *Planner) BuildPlan(ctx context.Context, sourceRoot, mediaRoot string, opts Options) (*Plan, error) {
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
	sourceFiles, err := sourceWalker.Walk()
	if err != nil {
		return nil, fmt.Errorf("scan source tree: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// All library files of a given size are link candidates
	mediaBySize := make(map[int64][]walker.FileInfo)
	for _, f := range mediaFiles {
		mediaBySize[f.Size] = append(mediaBySize[f.Size], f)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	plan := &Plan{}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, src := range sourceFiles {
		candidates := mediaBySize[src.Size]
		if len(candidates) == 0 {
			continue
		}

		wg.Add(1)
		go func(src walker.FileInfo, candidates []walker.FileInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pair, already, err := p.confirm(src, candidates)
			if err != nil {
				p.log.Warn("skipping %s: %v", src.Path, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case already:
				plan.AlreadyLinked++
			case pair == nil:
				// Same size, different content; nothing to do
			default:
				sameFS, err := fsutil.SameFilesystem(pair.SourcePath, pair.MediaPath)
				if err != nil {
					p.log.Warn("skipping %s: %v", pair.SourcePath, err)
					return
				}
				if !sameFS {
					plan.CrossDevice = append(plan.CrossDevice, *pair)
					return
				}
				plan.Pairs = append(plan.Pairs, *pair)
				plan.TotalBytes += pair.Size
			}
		}(src, candidates)
	}

	wg.Wait()
	sortPairs(plan)
	return plan, nil
}

// confirm verifies a staging file against its same-size candidates.
// Returns already=true when the file is hard-linked to a candidate
// and a pair when content-identical to one.
func (p *Planner) confirm(src walker.FileInfo, candidates []walker.FileInfo) (*Pair, bool, error) {
	for _, cand := range candidates {
		same, err := fsutil.SameFile(src.Path, cand.Path)
		if err != nil {
			return nil, false, err
		}
		if same {
			return nil, true, nil
		}
	}

	srcChecksum, err := calculateFileChecksum(src.Path)
	if err != nil {
		return nil, false, err
	}

	for _, cand := range candidates {
		candChecksum, err := calculateFileChecksum(cand.Path)
		if err != nil {
			p.log.Warn("skipping candidate %s: %v", cand.Path, err)
			continue
		}
		if candChecksum == srcChecksum {
			return &Pair{
				SourcePath: src.Path,
				MediaPath:  cand.Path,
				Size:       src.Size,
				Checksum:   srcChecksum,
			}, false, nil
		}
	}

	return nil, false, nil
}
