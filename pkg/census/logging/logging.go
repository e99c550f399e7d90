// Package logging provides component-scoped loggers for the census
// CLI, backed by charmbracelet/log.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("scanner")
//	logger.Info("scan started", "root", "/var/data")
//
// Before Init is called all loggers are silent, so library packages can
// log unconditionally without configuring anything.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) toCharmLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the minimum level emitted (debug, info, warn, error).
	Level string

	// Path is an optional log file path. Empty disables file output.
	Path string

	// Console enables human-readable output on stderr. The CLI turns
	// this off in quiet mode.
	Console bool
}

// Logger wraps charmbracelet/log with a component name so log lines
// identify which part of the scan produced them.
type Logger struct {
	file      *log.Logger // nil before Init or when file output is off
	console   *log.Logger // nil when console output is off
	component string
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) { l.log(LevelInfo, msg, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) { l.log(LevelWarn, msg, args...) }

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	if l.file != nil {
		logTo(l.file, level, msg, args...)
	}
	if l.console != nil {
		logTo(l.console, level, msg, args...)
	}
}

func logTo(logger *log.Logger, level Level, msg string, args ...interface{}) {
	switch level {
	case LevelDebug:
		logger.Debug(msg, args...)
	case LevelInfo:
		logger.Info(msg, args...)
	case LevelWarn:
		logger.Warn(msg, args...)
	case LevelError:
		logger.Error(msg, args...)
	}
}

// With returns a new logger with additional context attached to every line.
func (l *Logger) With(args ...interface{}) *Logger {
	newLogger := &Logger{component: l.component}
	if l.file != nil {
		newLogger.file = l.file.With(args...)
	}
	if l.console != nil {
		newLogger.console = l.console.With(args...)
	}
	return newLogger
}

// state holds the global logging state.
type state struct {
	mu          sync.RWMutex
	initialized bool
	level       Level
	console     bool
	fileHandle  *os.File
	loggers     map[string]*Logger
}

var globalState = &state{
	loggers: make(map[string]*Logger),
}

// Init initializes the logging system. It must be called before
// loggers produce output; Get may be called earlier and returns
// loggers that stay silent until Init runs.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.initialized {
		if globalState.fileHandle != nil {
			if err := globalState.fileHandle.Close(); err != nil {
				return fmt.Errorf("closing existing log file: %w", err)
			}
			globalState.fileHandle = nil
		}
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	globalState.level = level
	globalState.console = cfg.Console

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		globalState.fileHandle = f
	}

	globalState.initialized = true

	// Reconfigure loggers handed out before Init.
	for component, logger := range globalState.loggers {
		*logger = *newLoggerLocked(component)
	}

	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	globalState.initialized = false
	if globalState.fileHandle != nil {
		err := globalState.fileHandle.Close()
		globalState.fileHandle = nil
		return err
	}
	return nil
}

// Get returns the logger for the given component, creating it if needed.
func Get(component string) *Logger {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	logger := newLoggerLocked(component)
	globalState.loggers[component] = logger
	return logger
}

// newLoggerLocked builds a logger for the current state. Callers must
// hold globalState.mu.
func newLoggerLocked(component string) *Logger {
	l := &Logger{component: component}
	if !globalState.initialized {
		return l
	}

	if globalState.fileHandle != nil {
		l.file = newCharmLogger(globalState.fileHandle, component, globalState.level)
	}
	if globalState.console {
		l.console = newCharmLogger(os.Stderr, component, globalState.level)
	}
	return l
}

func newCharmLogger(w io.Writer, component string, level Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          component,
	})
	logger.SetLevel(level.toCharmLevel())
	return logger
}

// DefaultLogPath returns the default log file location under the XDG
// state directory.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "census", "census.log")
}
