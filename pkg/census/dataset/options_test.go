package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/census/pkg/census/types"
)

func TestNewImportOptions(t *testing.T) {
	opts := NewImportOptions("run-123")

	assert.Equal(t, "run-123", opts.RunID)
	assert.Equal(t, types.Columns, opts.ColumnNames)
	assert.Equal(t, ",", opts.Separator)
	assert.True(t, opts.IncludeArchiveFileName)
	assert.False(t, opts.IncludeFileSources)
	assert.False(t, opts.GeneratedAt.IsZero())
}

func TestWriteImportOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, WriteImportOptions(path, NewImportOptions("run-123")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	// The key names are part of the importer contract.
	assert.Contains(t, got, "columnNames")
	assert.Contains(t, got, "separator")
	assert.Contains(t, got, "includeArchiveFileName")
	assert.Contains(t, got, "includeFileSources")
	assert.Equal(t, "run-123", got["runId"])

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
