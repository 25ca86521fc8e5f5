package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger adapta o zerolog para a interface types.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a JSON logger writing to w (stderr when nil) at the given level.
func New(level string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// With returns a child logger carrying an extra field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) LogInfo(format string, a ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, a...))
}

func (l *Logger) LogWarning(format string, a ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, a...))
}

func (l *Logger) LogError(format string, a ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, a...))
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
