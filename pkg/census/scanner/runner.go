package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/census/pkg/census/dataset"
	"github.com/jamesainslie/census/pkg/census/logging"
	"github.com/jamesainslie/census/pkg/census/types"
)

// ErrNoRoots is returned when a run is started without any roots.
var ErrNoRoots = errors.New("no directory roots configured")

// Runner orchestrates a full scan: it opens exactly one sink for the
// run, scans each configured root in order, and accumulates the total
// output length.
type Runner struct {
	opts   Options
	logger *logging.Logger
}

// NewRunner creates a Runner with the given options. Options are
// validated and defaults applied.
func NewRunner(opts Options) *Runner {
	_ = opts.Validate()
	return &Runner{
		opts:   opts,
		logger: logging.Get("runner"),
	}
}

// Run executes the scan and returns aggregate statistics.
//
// Sink creation failure is fatal and aborts the run before any root is
// touched. A root that cannot be listed does not stop the remaining
// roots: its error is collected and the aggregate is returned alongside
// the stats once every root has been attempted. Sink write failures and
// context cancellation abort the run immediately. The sink is flushed
// and released on every exit path, and because it buffers, a flush
// failure at the end of the run counts as a sink failure and is part
// of the returned error: the run either hands over a fully delivered
// stream or fails.
func (r *Runner) Run(ctx context.Context) (types.Stats, error) {
	start := time.Now()
	stats := types.Stats{}

	if len(r.opts.Roots) == 0 {
		return stats, ErrNoRoots
	}

	runID := uuid.NewString()
	runLog := r.logger.With("run_id", runID)
	runLog.Info("scan started", "roots", len(r.opts.Roots))

	sink := r.opts.Sink
	if sink == nil {
		var err error
		sink, err = dataset.Create(r.opts.Output)
		if err != nil {
			runLog.Error("sink creation failed", "error", err)
			return stats, err
		}
	}

	// The sink buffers, so a destination failure may surface only at
	// the final flush. Close exactly once and treat its error as a
	// sink failure; the deferred call covers early fatal returns.
	closed := false
	closeSink := func() error {
		if closed {
			return nil
		}
		closed = true
		return sink.Close()
	}
	defer func() {
		if err := closeSink(); err != nil {
			runLog.Error("sink close failed", "error", err)
		}
	}()

	scan := New(r.opts)
	if r.opts.OnProgress != nil {
		scan.filesExpected.Store(r.precount(ctx))
		scan.reportProgressForce()
	}

	var rootErrs []error
	for _, root := range r.opts.Roots {
		n, err := scan.ScanRoot(ctx, root, sink)
		stats.BytesWritten += n
		if err != nil {
			if errors.Is(err, ErrSink) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stats.FilesWritten = scan.filesWritten.Load()
				stats.FilesSkipped = scan.filesSkipped.Load()
				stats.Errors = scan.Errors()
				stats.Elapsed = time.Since(start)
				return stats, err
			}
			runLog.Error("root scan failed", "root", root, "error", err)
			stats.RootsFailed++
			rootErrs = append(rootErrs, err)
			scan.addError(root, err)
			continue
		}
		stats.RootsScanned++
		runLog.Info("root scanned", "root", root, "bytes", n)
	}

	if err := closeSink(); err != nil {
		runLog.Error("sink close failed", "error", err)
		rootErrs = append(rootErrs, fmt.Errorf("%w: %v", ErrSink, err))
	}

	stats.FilesWritten = scan.filesWritten.Load()
	stats.FilesSkipped = scan.filesSkipped.Load()
	stats.Errors = scan.Errors()
	stats.Elapsed = time.Since(start)

	if r.opts.ImportOptionsPath != "" && len(rootErrs) == 0 {
		if err := dataset.WriteImportOptions(r.opts.ImportOptionsPath, dataset.NewImportOptions(runID)); err != nil {
			runLog.Error("import options write failed", "path", r.opts.ImportOptionsPath, "error", err)
			rootErrs = append(rootErrs, fmt.Errorf("writing import options: %w", err))
		}
	}

	runLog.Info("scan finished",
		"files", stats.FilesWritten,
		"skipped", stats.FilesSkipped,
		"bytes", stats.BytesWritten,
		"elapsed", stats.Elapsed)

	return stats, errors.Join(rootErrs...)
}

// precount estimates the number of candidate files across all roots so
// progress can show a total. Errors are progress-only and ignored.
func (r *Runner) precount(ctx context.Context) int64 {
	var total int64
	for _, root := range r.opts.Roots {
		n, err := countFiles(ctx, root, r.opts.MaxDepth)
		total += n
		if err != nil {
			r.logger.Debug("pre-count incomplete", "root", root, "error", err)
		}
	}
	return total
}
