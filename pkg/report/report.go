// Package report renders the human-readable planning report.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jlaasanen/nas-janitor/internal/fsutil"
	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/pkg/planner"
)

// Render writes the full prune report for an outcome: matched count,
// unmatched files annotated with their folder's verdict, standalone
// unmatched files, removal candidates with their recursive size and
// contents, and the aggregate potential savings.
func Render(w io.Writer, out *planner.Outcome) {
	fmt.Fprintln(w, HeaderStyle.Render("Size-match prune report"))
	fmt.Fprintf(w, "Source: %s\n", out.SourceRoot)
	fmt.Fprintf(w, "Media:  %s\n\n", out.MediaRoot)

	fmt.Fprintf(w, "Scanned %d source file(s), %d matched the media library.\n\n",
		len(out.Results), out.MatchedCount)

	renderUnmatched(w, out)
	renderStandalone(w, out)
	renderPlan(w, out)
}

func renderUnmatched(w io.Writer, out *planner.Outcome) {
	var unmatched []planner.MatchResult
	for _, res := range out.Results {
		if res.Kind == planner.UnmatchedInFolder {
			unmatched = append(unmatched, res)
		}
	}
	if len(unmatched) == 0 {
		return
	}
	sort.Slice(unmatched, func(i, j int) bool {
		return unmatched[i].Record.Path < unmatched[j].Record.Path
	})

	fmt.Fprintln(w, HeaderStyle.Render("Unmatched files"))
	for _, res := range unmatched {
		verdict := KeepStyle.Render("folder kept (has matches)")
		if !out.FolderHasMatch[res.Folder] {
			verdict = RemoveStyle.Render("folder marked for removal")
		}
		fmt.Fprintf(w, "  %s (%s) -> %s\n", res.Record.Path,
			logging.FormatBytes(res.Record.Size), verdict)
	}
	fmt.Fprintln(w)
}

func renderStandalone(w io.Writer, out *planner.Outcome) {
	var standalone []planner.MatchResult
	for _, res := range out.Results {
		if res.Kind == planner.UnmatchedStandalone {
			standalone = append(standalone, res)
		}
	}
	if len(standalone) == 0 {
		return
	}
	sort.Slice(standalone, func(i, j int) bool {
		return standalone[i].Record.Path < standalone[j].Record.Path
	})

	fmt.Fprintln(w, HeaderStyle.Render("Standalone unmatched files"))
	for _, res := range standalone {
		fmt.Fprintf(w, "  %s (%s)\n", res.Record.Path,
			logging.FormatBytes(res.Record.Size))
	}
	fmt.Fprintln(w)
}

func renderPlan(w io.Writer, out *planner.Outcome) {
	if out.Plan.IsEmpty() {
		fmt.Fprintln(w, KeepStyle.Render("Nothing to remove."))
		return
	}

	fmt.Fprintln(w, HeaderStyle.Render("Removal candidates"))
	for _, entry := range out.Plan.Entries {
		switch entry.Kind {
		case planner.KindFolder:
			fmt.Fprintf(w, "  folder %s (%s)\n", entry.TargetPath,
				logging.FormatBytes(entry.SizeBytes))
			for _, file := range fsutil.ListFiles(entry.TargetPath) {
				fmt.Fprintf(w, "    %s (%s)\n", file.RelPath,
					logging.FormatBytes(file.Size))
			}
		case planner.KindStandaloneFile:
			fmt.Fprintf(w, "  file   %s (%s)\n", entry.TargetPath,
				logging.FormatBytes(entry.SizeBytes))
		}
	}

	fmt.Fprintf(w, "\nPotential savings: %s across %d item(s)\n",
		InfoStyle.Render(logging.FormatBytes(out.Plan.TotalBytes)),
		len(out.Plan.Entries))
}
