package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/internal/ingest"
)

var (
	ingestPath       string
	ingestContainer  string
	ingestConsumeDir string
	ingestDryRun     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import folders into the document-sync service",
	Long: `ingest copies each immediate subfolder of the given path into the
document service's consume directory and triggers the in-container
importer via docker exec.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPath, "path", "", "Folder whose subfolders are imported (required)")
	ingestCmd.Flags().StringVar(&ingestContainer, "container", "", "Document service container name (default from config)")
	ingestCmd.Flags().StringVar(&ingestConsumeDir, "consume-dir", "", "Consume directory (default from config)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dryrun", false, "List folders without importing")
	_ = ingestCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := newLogger(false)

	container := ingestContainer
	if container == "" {
		container = cfg.Ingest.Container
	}
	consumeDir := ingestConsumeDir
	if consumeDir == "" {
		consumeDir = cfg.Ingest.ConsumeDir
	}

	summary, err := ingest.Run(cmd.Context(), ingestPath, ingest.Options{
		Container:  container,
		ConsumeDir: consumeDir,
		DryRun:     ingestDryRun,
	}, log)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	log.Info("Imported %d folder(s), %d failed", summary.Imported, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d folders failed to import", summary.Failed)
	}
	return nil
}
