// Package logger wraps zerolog with the service, environment and trace fields
// every dinesight log line carries.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Field names shared by the services so the same entity is searchable under one key.
const (
	FieldMenuItemID   = "menu_item_id"
	FieldIngredientID = "ingredient_id"
	FieldReceiptID    = "receipt_id"
)

// Logger is usable before Init is called; it writes JSON to stdout.
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init replaces the global logger. console switches from JSON to the
// human-readable writer.
func Init(serviceName, environment string, console bool) {
	var output io.Writer = os.Stdout
	if console {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	Logger = New(output, serviceName, environment)
	log.Logger = Logger
}

// New builds a logger stamped with service and environment.
func New(w io.Writer, serviceName, environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("environment", environment).
		Logger()
}

// WithContext returns a logger with trace information from context
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Logger.With().Logger()

	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		l = l.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}

	return &l
}

func Info(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Info()
}

func Error(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Error()
}

func Debug(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Debug()
}

func Warn(ctx context.Context) *zerolog.Event {
	return WithContext(ctx).Warn()
}

// SetLevel sets the global level from LOG_LEVEL. An unknown name falls back to
// info and is reported.
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
