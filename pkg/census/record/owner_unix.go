//go:build unix

package record

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
)

// posixPermissions reports whether the platform exposes POSIX
// permission bits worth emitting.
const posixPermissions = true

// getOwner returns the owner name for a file. Falls back to the UID
// string if the name cannot be resolved, and to "" when the filesystem
// exposes no ownership at all.
func getOwner(info fs.FileInfo) string {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return ""
	}

	uid := strconv.FormatUint(uint64(stat.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username
	}
	return uid
}
