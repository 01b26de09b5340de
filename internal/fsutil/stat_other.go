//go:build !unix

package fsutil

import "os"

func fileID(info os.FileInfo) (FileID, bool) {
	return FileID{}, false
}

func nlink(info os.FileInfo) uint64 {
	return 1
}

func owner(info os.FileInfo) (uid, gid int, ok bool) {
	return 0, 0, false
}
