// Package scanner implements the directory-walking engine of census:
// per-root enumeration, per-file record production with isolated
// failure handling, and the multi-root runner that owns the output
// sink for the lifetime of one run.
package scanner

import (
	"github.com/jamesainslie/census/pkg/census/checksum"
	"github.com/jamesainslie/census/pkg/census/config"
	"github.com/jamesainslie/census/pkg/census/content"
	"github.com/jamesainslie/census/pkg/census/dataset"
)

// Options configures a scan run.
type Options struct {
	// Roots are the directory roots to scan, processed in order.
	Roots []string

	// Output is the dataset destination path; "-" writes to stdout.
	// Ignored when Sink is set.
	Output string

	// Sink overrides dataset creation with a pre-opened sink. Used by
	// callers that already own the destination stream.
	Sink *dataset.Sink

	// MaxDepth is how many directory levels below each root are
	// visited. 1 means immediate children only.
	MaxDepth int

	// PreviewBytes bounds the per-file content preview.
	PreviewBytes int

	// Checksum selects the digest algorithm for the checksum column.
	Checksum checksum.Algorithm

	// IncludeContent controls whether the content column is populated.
	// When false, binary classification and content reads are skipped.
	IncludeContent bool

	// ImportOptionsPath, when non-empty, is where the importer-options
	// sidecar is written after a completed run.
	ImportOptionsPath string

	// OnProgress is called periodically with scan progress updates,
	// throttled so large directories do not pay per-file overhead.
	OnProgress func(Progress)
}

// Progress reports real-time scan progress.
type Progress struct {
	// Root is the root currently being scanned.
	Root string

	// FilesExpected is the pre-counted number of candidate files
	// across all roots, or 0 when no pre-count ran.
	FilesExpected int64

	// FilesWritten is the number of records emitted so far.
	FilesWritten int64

	// FilesSkipped counts files dropped by the per-file failure policy.
	FilesSkipped int64

	// CurrentPath is the file currently being processed.
	CurrentPath string
}

// DefaultOptions returns options with the shipped defaults.
func DefaultOptions() Options {
	return Options{
		Output:         config.DefaultOutput,
		MaxDepth:       config.DefaultMaxDepth,
		PreviewBytes:   config.DefaultPreviewBytes,
		Checksum:       checksum.SHA256,
		IncludeContent: config.DefaultContent,
	}
}

// Validate checks the options and applies defaults for unset values.
func (o *Options) Validate() error {
	if o.Output == "" {
		o.Output = config.DefaultOutput
	}
	if o.MaxDepth < 1 {
		o.MaxDepth = config.DefaultMaxDepth
	}
	if o.PreviewBytes <= 0 {
		o.PreviewBytes = content.DefaultPreviewBytes
	}
	if o.Checksum == "" {
		o.Checksum = checksum.SHA256
	}
	return nil
}
