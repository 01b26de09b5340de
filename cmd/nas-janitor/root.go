package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlaasanen/nas-janitor/internal/config"
	"github.com/jlaasanen/nas-janitor/internal/logging"
)

var (
	cfgFile string
	quiet   bool

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nas-janitor",
	Short: "Maintenance toolkit for a home NAS storage array",
	Long: `nas-janitor maintains a home NAS storage array: it prunes staging
folders whose media already lives in the library, hardlinks duplicate
files between staging and library, audits space with hard-link-aware
accounting, resets file ownership and permissions, and imports folders
into the document-sync service.

Destructive operations are never performed directly: prune emits a
separately confirmed removal script, and hardlink/perms support dry
runs.`,
	Version:       fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromEnv()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default searches .nas-janitor.yaml upward)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")
}

// newLogger builds the logger for a command invocation
func newLogger(verbose bool) *logging.Logger {
	return logging.NewLogger(quiet, verbose)
}
