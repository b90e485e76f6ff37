// Package logging builds the process logger: a JSON file under the log
// directory plus a quieter console handler on stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// FileName is the log file created inside Options.Dir.
const FileName = "wordrank.log"

// Options describes logger construction parameters.
type Options struct {
	Dir     string    // log directory; "" disables the file handler
	Level   string    // file handler level
	Quiet   bool      // console shows errors only
	Console io.Writer // defaults to os.Stderr
}

// Logger wraps the slog logger together with the file it writes to.
type Logger struct {
	*slog.Logger
	Path string
	file *os.File
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New constructs the fanout logger. When the log directory cannot be used the
// logger falls back to the console handler and reports why on it.
func New(opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := slog.LevelWarn
	if opts.Quiet {
		consoleLevel = slog.LevelError
	}
	consoleHandler := newConsoleHandler(console, consoleLevel)

	logger := &Logger{}
	if strings.TrimSpace(opts.Dir) == "" {
		logger.Logger = slog.New(consoleHandler)
		return logger
	}

	file, path, err := openLogFile(opts.Dir)
	if err != nil {
		logger.Logger = slog.New(consoleHandler)
		logger.Warn("file logging disabled", "dir", opts.Dir, "error", err)
		return logger
	}

	// Every invocation appends to the same file; the invocation ID groups the
	// records of one run there. The console does not need it.
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: ParseLevel(opts.Level)}).
		WithAttrs([]slog.Attr{slog.String("invocation", uuid.NewString())})
	logger.Logger = slog.New(newFanoutHandler(
		sink{name: "file", handler: fileHandler},
		sink{name: "console", handler: consoleHandler},
	))
	logger.Path = path
	logger.file = file
	return logger
}

func openLogFile(dir string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("open log file: %w", err)
	}
	return file, path, nil
}

// newConsoleHandler picks a text handler for terminals and JSON otherwise.
func newConsoleHandler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
