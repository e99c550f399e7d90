//go:build !darwin && !linux

package record

import (
	"io/fs"
	"time"
)

// getCreateTime returns the creation time of a file. Platforms without
// a reliable birth time report none, which leaves the creation column
// empty rather than guessing.
func getCreateTime(path string, info fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
