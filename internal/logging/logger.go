// Package logging provides component loggers that share one logrus sink.
//
// The terminal belongs to the board while it runs, so by default nothing is
// written anywhere until Configure attaches a file or another writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/runtimepath"
)

// LevelEnv overrides the configured log level when set.
const LevelEnv = "TERMBOARD_LOG_LEVEL"

var (
	base      = newBaseLogger()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	closer    io.Closer
)

func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Options selects level, format and sink for all component loggers.
type Options struct {
	Level  string
	Format string // "text" or "json"
	// File is opened in append mode. Ignored when Output is set.
	File   string
	Output io.Writer
}

// OptionsFromConfig maps the logging section of a config. An empty file falls
// back to the default state log path.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Level: cfg.LogLevel, Format: cfg.Logging.Format, File: cfg.Logging.File}
	if opts.File == "" {
		if path, err := runtimepath.LogPath(); err == nil {
			opts.File = path
		}
	}
	return opts
}

// NewLogger returns the logger for a component. Entries are cached so every
// caller of the same component shares one entry.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, ok := loggers[component]; ok {
		return logger
	}
	entry := base.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Configure applies opts to the shared logger. A previously opened log file
// is closed once the new sink is in place.
func Configure(opts Options) error {
	levelStr := opts.Level
	if env := os.Getenv(LevelEnv); env != "" {
		levelStr = env
	}
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}

	out := opts.Output
	var file *os.File
	if out == nil && opts.File != "" {
		path := expandPath(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		out = file
	}
	if out == nil {
		out = io.Discard
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   isTerminal(out),
			DisableColors: !isTerminal(out),
		})
	default:
		if file != nil {
			file.Close()
		}
		return fmt.Errorf("invalid log format %q", opts.Format)
	}

	base.SetLevel(level)
	base.SetOutput(out)

	loggersMu.Lock()
	prev := closer
	closer = nil
	if file != nil {
		closer = file
	}
	loggersMu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// Close releases the log file opened by Configure, if any, and silences
// further output.
func Close() error {
	loggersMu.Lock()
	prev := closer
	closer = nil
	loggersMu.Unlock()

	base.SetOutput(io.Discard)
	if prev != nil {
		return prev.Close()
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
