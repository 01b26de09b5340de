package hardlink

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jlaasanen/nas-janitor/internal/logging"
)

// Result is the outcome of executing one planned link
type Result struct {
	Pair  Pair
	Error error
}

// Executor replaces staging files with hard links, bounded-concurrency
type Executor struct {
	log         *logging.Logger
	concurrency int
}

func NewExecutor(log *logging.Logger, concurrency int) *Executor {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Executor{log: log, concurrency: concurrency}
}

// Execute runs every planned link and returns one result per pair, in
// plan order. Failures do not stop the remaining links.
func (e *Executor) Execute(ctx context.Context, pairs []Pair) []Result {
	results := make([]Result, len(pairs))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, pair := range pairs {
		wg.Add(1)
		go func(idx int, pr Pair) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[idx] = Result{Pair: pr, Error: err}
				return
			}

			e.log.Debug("link: %s <- %s", pr.SourcePath, pr.MediaPath)
			err := linkOver(pr.MediaPath, pr.SourcePath)
			if err != nil {
				e.log.Error("link %s: %v", pr.SourcePath, err)
			}
			results[idx] = Result{Pair: pr, Error: err}
		}(i, pair)
	}

	wg.Wait()
	return results
}

// linkOver replaces target with a hard link to source. The link is
// created under a temporary name in the target's directory and renamed
// over the target, so the target path never dangles.
func linkOver(source, target string) error {
	tmp := target + ".nas-janitor-link"
	if err := os.Link(source, tmp); err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace target: %w", err)
	}
	return nil
}

func sortPairs(plan *Plan) {
	sort.Slice(plan.Pairs, func(i, j int) bool {
		return plan.Pairs[i].SourcePath < plan.Pairs[j].SourcePath
	})
	sort.Slice(plan.CrossDevice, func(i, j int) bool {
		return plan.CrossDevice[i].SourcePath < plan.CrossDevice[j].SourcePath
	})
}
