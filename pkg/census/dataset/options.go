package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jamesainslie/census/pkg/census/types"
)

// ImportOptions describes how the downstream tabular importer must be
// configured to consume the generated stream: the column names in
// their fixed order, the separator, and the importer's source-tracking
// switches. The JSON field names match what the importer reads.
type ImportOptions struct {
	RunID                  string    `json:"runId"`
	GeneratedAt            time.Time `json:"generatedAt"`
	ColumnNames            []string  `json:"columnNames"`
	Separator              string    `json:"separator"`
	IncludeArchiveFileName bool      `json:"includeArchiveFileName"`
	IncludeFileSources     bool      `json:"includeFileSources"`
}

// NewImportOptions returns the option block for a run. The column set
// and importer switches are fixed by the stream contract; only the run
// identity varies.
func NewImportOptions(runID string) ImportOptions {
	return ImportOptions{
		RunID:                  runID,
		GeneratedAt:            time.Now().UTC(),
		ColumnNames:            types.Columns,
		Separator:              ",",
		IncludeArchiveFileName: true,
		IncludeFileSources:     false,
	}
}

// WriteImportOptions writes the option block as indented JSON,
// atomically via a temp file and rename.
func WriteImportOptions(path string, opts ImportOptions) error {
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal import options: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
