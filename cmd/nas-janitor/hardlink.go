package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/internal/logging"
	"github.com/jlaasanen/nas-janitor/pkg/hardlink"
)

var (
	hardlinkSourcePath  string
	hardlinkMediaPath   string
	hardlinkDryRun      bool
	hardlinkVerbose     bool
	hardlinkConcurrency int
	hardlinkExcludes    []string
)

var hardlinkCmd = &cobra.Command{
	Use:   "hardlink",
	Short: "Replace staging duplicates with hard links into the library",
	Long: `hardlink finds staging files whose exact content already exists in the
media library (same size, same checksum) and replaces each staging copy
with a hard link to the library file. The staging path keeps working
for anything still reading it, but stops costing space.

Cross-filesystem duplicates are reported and skipped; hard links cannot
span filesystems.`,
	RunE: runHardlink,
}

func init() {
	hardlinkCmd.Flags().StringVar(&hardlinkSourcePath, "source-path", "", "Staging tree to deduplicate (required)")
	hardlinkCmd.Flags().StringVar(&hardlinkMediaPath, "media-path", "", "Media library tree (required)")
	hardlinkCmd.Flags().BoolVar(&hardlinkDryRun, "dryrun", false, "Show planned links without creating them")
	hardlinkCmd.Flags().BoolVar(&hardlinkVerbose, "verbose", false, "Per-file trace output")
	hardlinkCmd.Flags().IntVar(&hardlinkConcurrency, "concurrency", 8, "Number of concurrent operations")
	hardlinkCmd.Flags().StringSliceVar(&hardlinkExcludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	_ = hardlinkCmd.MarkFlagRequired("source-path")
	_ = hardlinkCmd.MarkFlagRequired("media-path")
	rootCmd.AddCommand(hardlinkCmd)
}

func runHardlink(cmd *cobra.Command, args []string) error {
	log := newLogger(hardlinkVerbose)
	plnr := hardlink.NewPlanner(log)

	plan, err := plnr.BuildPlan(cmd.Context(), hardlinkSourcePath, hardlinkMediaPath, hardlink.Options{
		Extensions:  cfg.Extensions,
		Excludes:    hardlinkExcludes,
		Concurrency: hardlinkConcurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	if plan.AlreadyLinked > 0 {
		log.Info("%d file(s) already hard-linked", plan.AlreadyLinked)
	}
	for _, pair := range plan.CrossDevice {
		log.Warn("cannot link across filesystems: %s ~ %s", pair.SourcePath, pair.MediaPath)
	}

	if len(plan.Pairs) == 0 {
		log.Info("Nothing to link.")
		return nil
	}

	log.Info("%d link(s) planned, reclaiming %s", len(plan.Pairs),
		logging.FormatBytes(plan.TotalBytes))

	if hardlinkDryRun {
		for _, pair := range plan.Pairs {
			log.Info("would link %s <- %s (%s)", pair.SourcePath, pair.MediaPath,
				logging.FormatBytes(pair.Size))
		}
		return nil
	}

	exec := hardlink.NewExecutor(log, hardlinkConcurrency)
	results := exec.Execute(cmd.Context(), plan.Pairs)

	var failed int
	var reclaimed int64
	for _, result := range results {
		if result.Error != nil {
			failed++
		} else {
			reclaimed += result.Pair.Size
		}
	}

	log.Info("Linked %d file(s), reclaimed %s", len(results)-failed,
		logging.FormatBytes(reclaimed))
	if failed > 0 {
		return fmt.Errorf("%d operations failed", failed)
	}
	return nil
}
