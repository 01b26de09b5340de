// Package fsutil provides filesystem utilities for size accounting and
// hardlink operations.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileID identifies a file's underlying inode. Two paths with the same
// FileID are hard links to the same data.
type FileID struct {
	Dev uint64
	Ino uint64
}

// ID returns the FileID for a stat result. ok is false on platforms
// where inode identity is unavailable.
func ID(info os.FileInfo) (FileID, bool) {
	return fileID(info)
}

// Nlink returns the hard link count for a stat result, or 1 when the
// platform does not expose it.
func Nlink(info os.FileInfo) uint64 {
	return nlink(info)
}

// Owner returns the uid/gid for a stat result. ok is false on platforms
// without Unix ownership.
func Owner(info os.FileInfo) (uid, gid int, ok bool) {
	return owner(info)
}

// SameFilesystem checks if two paths are on the same filesystem.
// This is required for hardlinks, which cannot span filesystems.
func SameFilesystem(path1, path2 string) (bool, error) {
	if path1 == "" || path2 == "" {
		return false, errors.New("path must not be empty")
	}
	info1, err := os.Stat(path1)
	if err != nil {
		return false, fmt.Errorf("path does not exist: %s: %w", path1, err)
	}
	info2, err := os.Stat(path2)
	if err != nil {
		return false, fmt.Errorf("path does not exist: %s: %w", path2, err)
	}
	id1, ok1 := fileID(info1)
	id2, ok2 := fileID(info2)
	if !ok1 || !ok2 {
		return false, errors.New("filesystem identity not supported on this platform")
	}
	return id1.Dev == id2.Dev, nil
}

// SameFile reports whether two paths are hard links to the same inode
func SameFile(path1, path2 string) (bool, error) {
	info1, err := os.Stat(path1)
	if err != nil {
		return false, err
	}
	info2, err := os.Stat(path2)
	if err != nil {
		return false, err
	}
	return os.SameFile(info1, info2), nil
}

// Entry is a single file found under a directory
type Entry struct {
	RelPath string
	Size    int64
}

// DirSize returns the recursive apparent size of a directory in bytes.
// Hard links are not deduplicated: this is "bytes you would reclaim by
// removing the tree" accounting from the tree's own point of view.
// Per-file errors are skipped so the size is best-effort.
func DirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

// ListFiles returns every file under root with its size, for report
// content listings. Per-file errors are skipped.
func ListFiles(root string) []Entry {
	var entries []Entry
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		entries = append(entries, Entry{
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
		})
		return nil
	})
	return entries
}
