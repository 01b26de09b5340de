// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultExtensions is the recognized media container allow-list
var DefaultExtensions = []string{"mkv", "mp4", "avi", "m4v"}

// DefaultToleranceMB is the size-match fuzziness for re-encoded or
// remuxed files that are logically identical but not byte-identical
const DefaultToleranceMB = 1

// Config is the on-disk configuration for nas-janitor
type Config struct {
	// Extensions is the recognized media file allow-list, without dots
	Extensions []string `yaml:"extensions"`
	// ToleranceMB is the default prune size-match tolerance in MiB
	ToleranceMB int64 `yaml:"tolerance_mb"`

	Perms  PermsConfig  `yaml:"perms"`
	Ingest IngestConfig `yaml:"ingest"`
}

// PermsConfig holds ownership/permission reset defaults. The built-in
// values follow the Unraid newperms convention.
type PermsConfig struct {
	UID      int    `yaml:"uid"`
	GID      int    `yaml:"gid"`
	DirMode  string `yaml:"dir_mode"`
	FileMode string `yaml:"file_mode"`
}

// IngestConfig holds document-sync import defaults
type IngestConfig struct {
	Container  string `yaml:"container"`
	ConsumeDir string `yaml:"consume_dir"`
}

// Default returns the built-in configuration used when no config file
// is found
func Default() *Config {
	return &Config{
		Extensions:  append([]string(nil), DefaultExtensions...),
		ToleranceMB: DefaultToleranceMB,
		Perms: PermsConfig{
			UID:      99,
			GID:      100,
			DirMode:  "0777",
			FileMode: "0666",
		},
		Ingest: IngestConfig{
			Container:  "paperless",
			ConsumeDir: "/mnt/user/documents/consume",
		},
	}
}

// Validate checks the configuration for values that would make a run
// misbehave
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	if c.ToleranceMB < 0 {
		return fmt.Errorf("tolerance_mb must be non-negative, got %d", c.ToleranceMB)
	}
	if _, err := c.DirFileMode(); err != nil {
		return err
	}
	if _, err := c.FileFileMode(); err != nil {
		return err
	}
	return nil
}

// DirFileMode parses the configured directory mode
func (c *Config) DirFileMode() (os.FileMode, error) {
	return ParseMode(c.Perms.DirMode)
}

// FileFileMode parses the configured file mode
func (c *Config) FileFileMode() (os.FileMode, error) {
	return ParseMode(c.Perms.FileMode)
}

// ParseMode parses an octal permission string like "0777"
func ParseMode(s string) (os.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", s, err)
	}
	if n > 0o7777 {
		return 0, fmt.Errorf("invalid octal mode %q", s)
	}
	return os.FileMode(n), nil
}

// fileConfig mirrors Config with pointer fields for everything that
// has a meaningful zero value. Unmarshaling into it tells set-to-zero
// apart from absent, so an explicit tolerance_mb: 0 or uid: 0 in the
// file survives the merge with the built-in defaults.
type fileConfig struct {
	Extensions  []string `yaml:"extensions"`
	ToleranceMB *int64   `yaml:"tolerance_mb"`

	Perms struct {
		UID      *int   `yaml:"uid"`
		GID      *int   `yaml:"gid"`
		DirMode  string `yaml:"dir_mode"`
		FileMode string `yaml:"file_mode"`
	} `yaml:"perms"`
	Ingest IngestConfig `yaml:"ingest"`
}

// merge overlays the values present in the file onto the built-in
// defaults and returns the result
func (fc *fileConfig) merge() *Config {
	cfg := Default()
	if len(fc.Extensions) > 0 {
		cfg.Extensions = fc.Extensions
	}
	if fc.ToleranceMB != nil {
		cfg.ToleranceMB = *fc.ToleranceMB
	}
	if fc.Perms.UID != nil {
		cfg.Perms.UID = *fc.Perms.UID
	}
	if fc.Perms.GID != nil {
		cfg.Perms.GID = *fc.Perms.GID
	}
	if fc.Perms.DirMode != "" {
		cfg.Perms.DirMode = fc.Perms.DirMode
	}
	if fc.Perms.FileMode != "" {
		cfg.Perms.FileMode = fc.Perms.FileMode
	}
	if fc.Ingest.Container != "" {
		cfg.Ingest.Container = fc.Ingest.Container
	}
	if fc.Ingest.ConsumeDir != "" {
		cfg.Ingest.ConsumeDir = fc.Ingest.ConsumeDir
	}
	return cfg
}
