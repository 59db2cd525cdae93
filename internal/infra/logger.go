package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger

// NewLogger constructs a zerolog.Logger for the given environment. Output goes
// to stderr so the CLI can keep stdout for results.
func NewLogger(appEnv string) Logger {
	return newLogger(os.Stderr, appEnv)
}

func newLogger(w io.Writer, appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	return logger
}

// Discard returns a logger that drops everything. Clients fall back to it when
// no logger is injected.
func Discard() *Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// OrDiscard returns l, or a discard logger when l is nil.
func OrDiscard(l *Logger) *Logger {
	if l != nil {
		return l
	}
	return Discard()
}
