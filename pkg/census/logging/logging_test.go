package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "INFO", want: LevelInfo},
		{input: "bogus", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestGetBeforeInitIsSilent(t *testing.T) {
	logger := Get("quiet-component")
	// Must not panic or produce output before Init.
	logger.Info("nothing to see")
	logger.Error("still nothing")
}

func TestInitFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "census.log")

	if err := Init(Config{Level: "debug", Path: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer func() { _ = Close() }()

	logger := Get("testcomp")
	logger.Info("scan started", "root", "/srv/data")

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "scan started") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), "testcomp") {
		t.Errorf("log file missing component prefix, got: %s", data)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "nope"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

// TestInitReconfiguresEarlyLoggers verifies that loggers handed out
// before Init start writing once Init runs.
func TestInitReconfiguresEarlyLoggers(t *testing.T) {
	logger := Get("early-component")

	path := filepath.Join(t.TempDir(), "census.log")
	if err := Init(Config{Level: "info", Path: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	logger.Info("late message")
	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "late message") {
		t.Errorf("early logger not reconfigured, log: %s", data)
	}
}
