package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"github.com/rs/zerolog"
)

// AppLogger fans structured events out to the console, an optional file and
// the UI log list.
type AppLogger struct {
	zlog    zerolog.Logger
	level   zerolog.Level
	writers []io.Writer
	file    *os.File
}

type Option func(*AppLogger) error

// WithConsole enables human-readable stdout output
func WithConsole() Option {
	return func(l *AppLogger) error {
		l.writers = append(l.writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
		return nil
	}
}

// WithLevel sets the minimum level
func WithLevel(level zerolog.Level) Option {
	return func(l *AppLogger) error {
		l.level = level
		return nil
	}
}

// WithFile appends plain-text events to path
func WithFile(path string) Option {
	return func(l *AppLogger) error {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		l.writers = append(l.writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
		return nil
	}
}

// WithWriter sends raw JSON events to w
func WithWriter(w io.Writer) Option {
	return func(l *AppLogger) error {
		l.writers = append(l.writers, w)
		return nil
	}
}

// WithBinding mirrors Info and above into a UI list, keeping the last maxLines
// entries. Debug stays out of the UI.
func WithBinding(data binding.StringList, maxLines int) Option {
	return func(l *AppLogger) error {
		sink := &bindingSink{data: data, max: maxLines}
		console := zerolog.ConsoleWriter{Out: sink, TimeFormat: "15:04:05", NoColor: true}
		l.writers = append(l.writers, levelFilter{w: console, min: zerolog.InfoLevel})
		return nil
	}
}

// New creates a logger; with no writer options it logs to the console.
func New(opts ...Option) (*AppLogger, error) {
	l := &AppLogger{level: zerolog.InfoLevel}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply logger option: %w", err)
		}
	}
	if len(l.writers) == 0 {
		_ = WithConsole()(l)
	}
	l.zlog = zerolog.New(zerolog.MultiLevelWriter(l.writers...)).Level(l.level).With().Timestamp().Logger()
	return l, nil
}

// Zerolog returns the underlying logger for packages that log events directly.
func (l *AppLogger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	l.zlog.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn logs a warning
func (l *AppLogger) Warn(format string, args ...interface{}) {
	l.zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	l.zlog.Error().Msg(fmt.Sprintf(format, args...))
}

// Debug logs to console and file only
func (l *AppLogger) Debug(format string, args ...interface{}) {
	l.zlog.Debug().Msg(fmt.Sprintf(format, args...))
}

// Close closes the log file, if any
func (l *AppLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}

type bindingSink struct {
	mu   sync.Mutex
	data binding.StringList
	max  int
}

func (s *bindingSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, _ := s.data.Get()
	_ = s.data.Set(appendCapped(list, strings.TrimRight(string(p), "\n"), s.max))
	return len(p), nil
}

// appendCapped appends line and drops the oldest entries beyond max.
func appendCapped(lines []string, line string, max int) []string {
	lines = append(lines, line)
	if max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines
}
