package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/internal/config"
	"github.com/jlaasanen/nas-janitor/pkg/perms"
)

var (
	permsPath     string
	permsUID      int
	permsGID      int
	permsDirMode  string
	permsFileMode string
	permsDryRun   bool
)

var permsCmd = &cobra.Command{
	Use:   "perms",
	Short: "Reset ownership and permissions across a tree",
	Long: `perms resets file ownership and permission bits across a tree to the
configured defaults (the Unraid newperms convention unless overridden).
Only entries whose current state differs are touched. Use --dryrun to
see what would change.`,
	RunE: runPerms,
}

func init() {
	permsCmd.Flags().StringVar(&permsPath, "path", "", "Tree to reset (required)")
	permsCmd.Flags().IntVar(&permsUID, "uid", -2, "Owner uid to apply, -1 to leave untouched (default from config)")
	permsCmd.Flags().IntVar(&permsGID, "gid", -2, "Owner gid to apply, -1 to leave untouched (default from config)")
	permsCmd.Flags().StringVar(&permsDirMode, "dir-mode", "", "Octal directory mode (default from config)")
	permsCmd.Flags().StringVar(&permsFileMode, "file-mode", "", "Octal file mode (default from config)")
	permsCmd.Flags().BoolVar(&permsDryRun, "dryrun", false, "Show would-be changes without applying them")
	_ = permsCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(permsCmd)
}

func runPerms(cmd *cobra.Command, args []string) error {
	log := newLogger(false)

	uid, gid := permsUID, permsGID
	if !cmd.Flags().Changed("uid") {
		uid = cfg.Perms.UID
	}
	if !cmd.Flags().Changed("gid") {
		gid = cfg.Perms.GID
	}
	if uid < -1 || gid < -1 {
		return fmt.Errorf("uid/gid must be -1 or a non-negative id")
	}

	dirMode, err := cfg.DirFileMode()
	if err != nil {
		return err
	}
	if permsDirMode != "" {
		if dirMode, err = config.ParseMode(permsDirMode); err != nil {
			return err
		}
	}
	fileMode, err := cfg.FileFileMode()
	if err != nil {
		return err
	}
	if permsFileMode != "" {
		if fileMode, err = config.ParseMode(permsFileMode); err != nil {
			return err
		}
	}

	summary, err := perms.Reset(cmd.Context(), permsPath, perms.Options{
		UID:      uid,
		GID:      gid,
		DirMode:  dirMode,
		FileMode: fileMode,
		DryRun:   permsDryRun,
		Progress: !quiet,
	}, log)
	if err != nil {
		return fmt.Errorf("permission reset failed: %w", err)
	}

	log.Info("Visited %d entries, changed %d, failed %d",
		summary.Visited, summary.Changed, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d entries failed", summary.Failed)
	}
	return nil
}
