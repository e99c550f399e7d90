// Package dataset owns the output side of a scan: the single
// append-only sink every root writes to, exact byte accounting for the
// emitted stream, and the option block the downstream tabular importer
// must be configured with.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink is the append-only destination stream for one run. It is owned
// exclusively by the orchestrating runner and written by one scanner at
// a time; Close flushes and releases it on every exit path.
type Sink struct {
	w     *bufio.Writer
	owned *os.File // non-nil when the sink opened the file itself
	n     int64
}

// Create opens a sink at path, truncating any existing file. The
// path "-" writes to standard output, which stays open after Close.
func Create(path string) (*Sink, error) {
	if path == "-" || path == "" {
		return New(os.Stdout), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating dataset %s: %w", path, err)
	}
	return &Sink{w: bufio.NewWriter(f), owned: f}, nil
}

// New wraps an existing writer as a sink. The writer is not closed by
// Close; only buffered data is flushed.
func New(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// WriteLine appends one serialized record line and returns the number
// of bytes written.
func (s *Sink) WriteLine(line string) (int, error) {
	n, err := s.w.WriteString(line)
	s.n += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing record: %w", err)
	}
	return n, nil
}

// BytesWritten returns the exact byte length of the stream so far.
func (s *Sink) BytesWritten() int64 {
	return s.n
}

// Close flushes buffered data and closes the underlying file when the
// sink owns it. It is safe to call on every exit path, including after
// a fatal error.
func (s *Sink) Close() error {
	flushErr := s.w.Flush()
	if s.owned != nil {
		closeErr := s.owned.Close()
		s.owned = nil
		if flushErr != nil {
			return flushErr
		}
		return closeErr
	}
	return flushErr
}
