//go:build linux

package record

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// getCreateTime returns the creation time of a file. Linux exposes
// birth time only through statx(2), and only on filesystems that
// record it (ext4, xfs, btrfs on 4.11+ kernels). When the kernel or
// filesystem leaves STATX_BTIME unset, the record's creation column
// stays empty.
func getCreateTime(path string, info fs.FileInfo) (time.Time, bool) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
