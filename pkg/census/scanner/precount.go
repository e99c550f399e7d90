package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// countFiles walks root with fastwalk and counts the regular files the
// ordered scan will visit, honoring the same depth bound. The walk is
// parallel and unordered, which is fine for counting; only the ordered
// pass produces records.
func countFiles(ctx context.Context, root string, maxDepth int) (int64, error) {
	conf := fastwalk.Config{
		Follow: false,
	}

	var count atomic.Int64
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			// Unreadable entries are skipped by the real scan too.
			return nil
		}
		if path == root {
			return nil
		}

		depth := entryDepth(root, path)
		if d.IsDir() {
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && depth <= maxDepth {
			count.Add(1)
		}
		return nil
	})
	if err != nil {
		return count.Load(), err
	}
	return count.Load(), nil
}

// entryDepth returns how many levels below root a path sits; immediate
// children are depth 1.
func entryDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
