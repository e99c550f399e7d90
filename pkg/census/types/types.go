// Package types provides core data types for the census dataset
// generator. It defines the output record schema, scan statistics,
// and size helpers shared by the scanner and the CLI.
package types

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// KiB is the number of bytes in one binary kilobyte.
const KiB int64 = 1024

// Columns lists the dataset column names in their fixed output order.
// The downstream tabular importer is configured with exactly these
// names; the order and count must never change independently of it.
var Columns = []string{
	"fileName",
	"fileSize(KB)",
	"fileExtension",
	"lastModifiedTime",
	"creationTime",
	"author",
	"filePath",
	"filePermissions",
	"fileChecksum",
	"fileContent",
}

// TimestampLayout is the format used for the two timestamp columns,
// rendered in local time at second precision.
const TimestampLayout = "2006-01-02T15:04:05"

// Record is one row of the generated dataset. String fields that could
// not be extracted are empty, never absent; a Record always serializes
// to all ten columns.
type Record struct {
	// Name is the final path segment of the file.
	Name string

	// SizeKB is the file size in kilobytes, rounded up.
	SizeKB int64

	// Extension is the file name extension without the dot, or "".
	Extension string

	// Modified is the last modification timestamp, already formatted.
	Modified string

	// Created is the creation timestamp, or "" when the platform does
	// not expose a birth time.
	Created string

	// Author is the owner principal name, or "" when unavailable.
	Author string

	// Path is the absolute file path.
	Path string

	// Permissions is the 9-character POSIX symbolic permission string
	// (e.g. "rwxr-xr-x"), or "" on non-POSIX filesystems.
	Permissions string

	// Checksum is the lowercase hex digest of the file content, or ""
	// when the file could not be read.
	Checksum string

	// Content is the escaped content preview including its outer
	// quotes, or "" for binary or unreadable files.
	Content string
}

// Line serializes the record to one dataset row terminated with a
// newline. Only the content column carries its own escaping; the other
// columns come from a controlled vocabulary and are written verbatim.
func (r *Record) Line() string {
	return fmt.Sprintf("%s,%d,%s,%s,%s,%s,%s,%s,%s,%s\n",
		r.Name, r.SizeKB, r.Extension, r.Modified, r.Created,
		r.Author, r.Path, r.Permissions, r.Checksum, r.Content)
}

// Stats summarizes one completed run across all roots.
type Stats struct {
	// RootsScanned is the number of roots that were listed successfully.
	RootsScanned int

	// RootsFailed is the number of roots that could not be listed.
	RootsFailed int

	// FilesWritten is the number of records emitted.
	FilesWritten int64

	// FilesSkipped counts files dropped by the per-file failure policy.
	FilesSkipped int64

	// BytesWritten is the exact byte length of the emitted stream.
	BytesWritten int64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Errors lists the per-path failures observed during the run, in
	// the order they occurred. Recoverable failures never abort a run;
	// this is where they stay visible to the caller.
	Errors []ScanError
}

// ScanError pairs a path with the failure observed there. Recoverable
// per-file errors are collected for logging only and never abort a run.
type ScanError struct {
	Path  string
	Error string
}

// CeilKB converts a byte count to whole kilobytes, rounding up.
// A zero-byte file yields 0.
func CeilKB(bytes int64) int64 {
	if bytes <= 0 {
		return 0
	}
	return (bytes + KiB - 1) / KiB
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, for log lines and the end-of-run summary.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
