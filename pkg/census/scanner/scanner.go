package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/census/pkg/census/dataset"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/record"
	"github.com/jamesainslie/census/pkg/census/types"
)

var logger = logging.Get("scanner")

// ErrNotDirectory is returned when a configured root exists but is not
// a directory.
var ErrNotDirectory = errors.New("root is not a directory")

// ErrSink marks output-stream write failures, which are fatal for the
// whole run rather than for a single root.
var ErrSink = errors.New("dataset sink write failed")

// Scanner enumerates directory roots and emits one record line per
// regular file found.
type Scanner struct {
	opts    Options
	builder *record.Builder

	// Atomic counters for progress reporting across roots.
	filesWritten  atomic.Int64
	filesSkipped  atomic.Int64
	filesExpected atomic.Int64
	lastProgress  atomic.Int64
	currentRoot   string

	mu         sync.Mutex
	scanErrors []types.ScanError
}

// New creates a Scanner with the given options. Options are validated
// and defaults applied.
func New(opts Options) *Scanner {
	_ = opts.Validate()
	return &Scanner{
		opts:    opts,
		builder: record.NewBuilder(opts.Checksum, opts.PreviewBytes, opts.IncludeContent),
	}
}

// ScanRoot scans a single root and appends one line per regular file to
// sink, returning the cumulative byte length written for this root.
//
// Only the configured depth is visited (one level by default), and
// directories, symlinks, and other non-regular entries are skipped
// silently. A file whose record cannot be built is logged and skipped
// whole; no partial line is ever written. A root that cannot be listed
// at all is fatal for that root and returned to the caller.
func (s *Scanner) ScanRoot(ctx context.Context, root string, sink *dataset.Sink) (int64, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("listing root %s: %w", root, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	s.currentRoot = root
	return s.scanDir(ctx, root, 1, true, sink)
}

// scanDir processes one directory whose children sit at the given
// depth. Listing failures are fatal only at the root; deeper
// directories are logged and skipped so one unreadable subtree cannot
// abort the root scan.
func (s *Scanner) scanDir(ctx context.Context, dir string, depth int, isRoot bool, sink *dataset.Sink) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			return 0, fmt.Errorf("listing root %s: %w", dir, err)
		}
		logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		s.addError(dir, err)
		return 0, nil
	}

	var written int64
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if depth < s.opts.MaxDepth {
				n, err := s.scanDir(ctx, path, depth+1, false, sink)
				written += n
				if err != nil {
					return written, err
				}
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		n, err := s.emitRecord(path, entry, sink)
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// emitRecord builds and writes the record for one regular file. A
// failure while gathering metadata skips the file; a failure while
// writing to the sink is fatal for the run.
func (s *Scanner) emitRecord(path string, entry os.DirEntry, sink *dataset.Sink) (int64, error) {
	info, err := entry.Info()
	if err != nil {
		logger.Warn("skipping file, metadata unavailable", "path", path, "error", err)
		s.addError(path, err)
		s.filesSkipped.Add(1)
		s.reportProgress(path)
		return 0, nil
	}

	rec := s.builder.Build(path, info)

	n, err := sink.WriteLine(rec.Line())
	if err != nil {
		return int64(n), fmt.Errorf("%w: %v", ErrSink, err)
	}

	s.filesWritten.Add(1)
	s.reportProgress(path)
	return int64(n), nil
}

// addError records a recoverable per-path failure for the run summary.
func (s *Scanner) addError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanErrors = append(s.scanErrors, types.ScanError{Path: path, Error: err.Error()})
}

// Errors returns the per-path failures collected so far, in the order
// they were observed.
func (s *Scanner) Errors() []types.ScanError {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ScanError, len(s.scanErrors))
	copy(out, s.scanErrors)
	return out
}

// reportProgress calls the progress callback if configured, throttled
// to avoid overhead on large directories.
func (s *Scanner) reportProgress(path string) {
	if s.opts.OnProgress == nil {
		return
	}

	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 10 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return
	}

	s.sendProgress(path)
}

// reportProgressForce bypasses the throttle for run-level state changes.
func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress("")
}

func (s *Scanner) sendProgress(path string) {
	s.opts.OnProgress(Progress{
		Root:          s.currentRoot,
		FilesExpected: s.filesExpected.Load(),
		FilesWritten:  s.filesWritten.Load(),
		FilesSkipped:  s.filesSkipped.Load(),
		CurrentPath:   path,
	})
}
