//go:build darwin

package record

import (
	"io/fs"
	"syscall"
	"time"
)

// getCreateTime returns the creation time of a file. On macOS the
// birth time comes straight from the stat structure.
func getCreateTime(path string, info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec), true
}
