// Package logger provides structured logging for milestones
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human-readable console output
	Output io.Writer
}

// Logger wraps zerolog with milestones-specific helpers
type Logger struct {
	zlog zerolog.Logger
}

// New creates a structured logger. Output defaults to stderr so reports
// written to stdout stay clean.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "milestones").
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// Component returns a sub-logger tagged with a component name
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// Debug starts a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Info starts an info event
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Warn starts a warning event
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// Error starts an error event
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// LogScan records the outcome of scanning one document
func (l *Logger) LogScan(path string, milestones int, cached bool, duration time.Duration, err error) {
	if err != nil {
		l.zlog.Warn().
			Str("path", path).
			Dur("duration_ms", duration).
			Err(err).
			Msg("document scan failed")
		return
	}

	l.zlog.Debug().
		Str("path", path).
		Int("milestones", milestones).
		Bool("cached", cached).
		Dur("duration_ms", duration).
		Msg("document scanned")
}

// LogBatch records a completed batch
func (l *Logger) LogBatch(root string, documents, failures, milestones int, duration time.Duration) {
	l.zlog.Info().
		Str("root", root).
		Int("documents", documents).
		Int("failures", failures).
		Int("milestones", milestones).
		Dur("duration_ms", duration).
		Msg("batch complete")
}

var globalMu sync.Mutex

// Init builds a logger and installs it as zerolog's package-level logger
func Init(cfg Config) *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	l := New(cfg)
	log.Logger = l.zlog
	return l
}
