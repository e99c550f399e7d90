package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/dataset"
)

func seedRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	return root
}

// TestRunMultiRoot verifies root-then-name output ordering and that the
// reported byte total equals the exact length of the written stream.
func TestRunMultiRoot(t *testing.T) {
	rootA := seedRoot(t, map[string]string{"b.txt": "bee", "a.txt": "ay"})
	rootB := seedRoot(t, map[string]string{"c.txt": "sea"})

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Roots = []string{rootA, rootB}
	opts.Sink = dataset.New(&buf)

	stats, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)

	// Within a root, names come out in enumeration (sorted) order;
	// roots keep their configured order.
	assert.True(t, strings.HasPrefix(lines[0], "a.txt,"))
	assert.True(t, strings.HasPrefix(lines[1], "b.txt,"))
	assert.True(t, strings.HasPrefix(lines[2], "c.txt,"))

	assert.Equal(t, int64(len(out)), stats.BytesWritten)
	assert.Equal(t, int64(3), stats.FilesWritten)
	assert.Equal(t, 2, stats.RootsScanned)
	assert.Equal(t, 0, stats.RootsFailed)
}

// TestRunBadRootContinues verifies the multi-root failure policy: an
// unlistable root is reported in the aggregate error, and the remaining
// roots are still scanned.
func TestRunBadRootContinues(t *testing.T) {
	good := seedRoot(t, map[string]string{"a.txt": "ay"})
	bad := filepath.Join(t.TempDir(), "missing")

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Roots = []string{bad, good}
	opts.Sink = dataset.New(&buf)

	stats, err := NewRunner(opts).Run(context.Background())
	require.Error(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, stats.RootsScanned)
	assert.Equal(t, 1, stats.RootsFailed)
	assert.Equal(t, int64(1), stats.FilesWritten)

	require.Len(t, stats.Errors, 1)
	assert.Equal(t, bad, stats.Errors[0].Path)
}

// failingWriter rejects every write, standing in for a destination
// that went away mid-run.
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("no space left on device")
}

// TestRunSinkFlushFailure verifies that a destination which rejects
// writes fails the run even when the failure only surfaces when the
// buffered sink is flushed at the end.
func TestRunSinkFlushFailure(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "ay"})

	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.Sink = dataset.New(failingWriter{})

	_, err := NewRunner(opts).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSink)
}

func TestRunNoRoots(t *testing.T) {
	_, err := NewRunner(DefaultOptions()).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoRoots)
}

func TestRunNoContent(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "hello"})

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.IncludeContent = false
	opts.Sink = dataset.New(&buf)

	_, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	line := strings.TrimSuffix(buf.String(), "\n")
	cols := strings.SplitN(line, ",", 10)
	require.Len(t, cols, 10)
	assert.Empty(t, cols[9])
	assert.NotEmpty(t, cols[8]) // checksum still computed
}

func TestRunSinkCreateFailure(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "ay"})

	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.Output = filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")

	_, err := NewRunner(opts).Run(context.Background())
	assert.Error(t, err)
}

func TestRunWritesDatasetFile(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "ay"})
	out := filepath.Join(t.TempDir(), "files.csv")

	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.Output = out

	stats, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), stats.BytesWritten)
	assert.True(t, strings.HasPrefix(string(data), "a.txt,"))
}

func TestRunProgressReported(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "ay", "b.txt": "bee"})

	var buf bytes.Buffer
	var last Progress
	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.Sink = dataset.New(&buf)
	opts.OnProgress = func(p Progress) { last = p }

	_, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), last.FilesExpected)
}

func TestRunImportOptionsSidecar(t *testing.T) {
	root := seedRoot(t, map[string]string{"a.txt": "ay"})
	sidecar := filepath.Join(t.TempDir(), "import.json")

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Roots = []string{root}
	opts.Sink = dataset.New(&buf)
	opts.ImportOptionsPath = sidecar

	_, err := NewRunner(opts).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)

	var got dataset.ImportOptions
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ",", got.Separator)
	assert.Len(t, got.ColumnNames, 10)
	assert.True(t, got.IncludeArchiveFileName)
	assert.False(t, got.IncludeFileSources)
	assert.NotEmpty(t, got.RunID)
}
