package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/pkg/planner"
	"github.com/jlaasanen/nas-janitor/pkg/report"
	"github.com/jlaasanen/nas-janitor/pkg/script"
)

const bytesPerMB = 1024 * 1024

var (
	pruneSourcePath   string
	pruneMediaPath    string
	pruneToleranceMB  int64
	pruneVerbose      bool
	pruneDelete       bool
	pruneExcludes     []string
	prunePlanJSONFile string
	pruneScriptFile   string
)

// planJSON is the machine-readable plan artifact
type planJSON struct {
	RunID       string          `json:"run_id"`
	GeneratedAt string          `json:"generated_at"`
	SourceRoot  string          `json:"source_root"`
	MediaRoot   string          `json:"media_root"`
	Entries     []planJSONEntry `json:"entries"`
	Summary     planJSONSummary `json:"summary"`
}

type planJSONEntry struct {
	Target    string `json:"target"`
	Kind      string `json:"kind"` // "folder", "file"
	SizeBytes int64  `json:"size_bytes"`
}

type planJSONSummary struct {
	Scanned    int   `json:"scanned"`
	Matched    int   `json:"matched"`
	Folders    int   `json:"folders"`
	Files      int   `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Plan removal of staging folders whose media matched the library",
	Long: `prune compares the staging tree against the media library by file size
within a tolerance. Top-level staging folders none of whose files
matched anything in the library become removal candidates.

prune itself is read-only. With --delete it additionally writes a
removal script that demands two interactive confirmations before
touching anything.`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneSourcePath, "source-path", "", "Staging tree, candidate for space reclamation (required)")
	pruneCmd.Flags().StringVar(&pruneMediaPath, "media-path", "", "Authoritative media library tree (required)")
	pruneCmd.Flags().Int64Var(&pruneToleranceMB, "tolerance", -1, "Size match tolerance in whole MB (default from config)")
	pruneCmd.Flags().BoolVar(&pruneVerbose, "verbose", false, "Per-file trace output")
	pruneCmd.Flags().BoolVar(&pruneDelete, "delete", false, "Generate the removal script (never deletes directly)")
	pruneCmd.Flags().StringSliceVar(&pruneExcludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	pruneCmd.Flags().StringVar(&prunePlanJSONFile, "plan-json-file", "", "Path to output plan as JSON file")
	pruneCmd.Flags().StringVar(&pruneScriptFile, "script-file", "nas-janitor-remove.sh", "Path of the generated removal script")
	_ = pruneCmd.MarkFlagRequired("source-path")
	_ = pruneCmd.MarkFlagRequired("media-path")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	toleranceMB := pruneToleranceMB
	if !cmd.Flags().Changed("tolerance") {
		toleranceMB = cfg.ToleranceMB
	}
	if toleranceMB < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %d", toleranceMB)
	}

	log := newLogger(pruneVerbose)
	plnr := planner.NewPlanner(log)

	opts := planner.Options{
		ToleranceBytes: toleranceMB * bytesPerMB,
		Extensions:     cfg.Extensions,
		Excludes:       pruneExcludes,
		Verbose:        pruneVerbose,
	}

	out, err := plnr.Plan(cmd.Context(), pruneSourcePath, pruneMediaPath, opts)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	if !quiet {
		report.Render(os.Stdout, out)
	}

	if prunePlanJSONFile != "" {
		if err := writePlanJSON(prunePlanJSONFile, out); err != nil {
			return fmt.Errorf("failed to write plan JSON: %w", err)
		}
	}

	if pruneDelete && !out.Plan.IsEmpty() {
		if err := script.Write(pruneScriptFile, out.Plan, out.SourceRoot); err != nil {
			return err
		}
		log.Info("Removal script written to %s; run it and confirm twice to remove %s.",
			pruneScriptFile, logging.FormatBytes(out.Plan.TotalBytes))
	}

	return nil
}

func writePlanJSON(path string, out *planner.Outcome) error {
	result := planJSON{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		SourceRoot:  out.SourceRoot,
		MediaRoot:   out.MediaRoot,
		Entries:     []planJSONEntry{},
		Summary: planJSONSummary{
			Scanned:    len(out.Results),
			Matched:    out.MatchedCount,
			TotalBytes: out.Plan.TotalBytes,
		},
	}

	for _, entry := range out.Plan.Entries {
		result.Entries = append(result.Entries, planJSONEntry{
			Target:    entry.TargetPath,
			Kind:      string(entry.Kind),
			SizeBytes: entry.SizeBytes,
		})
		if entry.Kind == planner.KindFolder {
			result.Summary.Folders++
		} else {
			result.Summary.Files++
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
