//go:build !unix

package record

import "io/fs"

// posixPermissions reports whether the platform exposes POSIX
// permission bits worth emitting.
const posixPermissions = false

// getOwner returns the owner name for a file. On platforms without
// POSIX ownership it is always empty.
func getOwner(info fs.FileInfo) string {
	return ""
}
