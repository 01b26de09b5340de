package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/pkg/audit"
)

var (
	auditPath string
	auditTop  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report space usage with hard-link-aware accounting",
	Long: `audit walks a tree and reports apparent bytes (every path counted),
unique bytes (each inode counted once) and the savings hard links are
providing, broken down per top-level folder and per extension.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditPath, "path", "", "Tree to audit (required)")
	auditCmd.Flags().IntVar(&auditTop, "top", 10, "Number of extensions in the breakdown")
	_ = auditCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := newLogger(false)

	summary, err := audit.Scan(cmd.Context(), auditPath, audit.Options{
		Top:      auditTop,
		Progress: !quiet,
	}, log)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	audit.Render(os.Stdout, summary)
	return nil
}
