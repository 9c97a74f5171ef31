package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger so packages depend on one logging type
type Logger struct {
	zerolog.Logger
}

// New builds the process logger. Development writes coloured console lines
// at debug level; every other environment writes JSON at info level.
func New(serviceName string, environment string) *Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	if environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: zl}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithComponent tags every line with the subsystem that wrote it
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithField returns a child logger carrying key=value
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{Logger: l.Logger.With().Str(key, value).Logger()}
}

// IntoContext stores l in ctx for FromContext
func (l *Logger) IntoContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the request-scoped logger, or fallback when ctx has none
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	zl := zerolog.Ctx(ctx)
	if zl == nil || zl.GetLevel() == zerolog.Disabled {
		return fallback
	}
	return &Logger{Logger: *zl}
}
