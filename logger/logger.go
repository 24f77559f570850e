package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Logger wraps zerolog.Logger with map-based structured fields.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger for service writing to the configured output.
func New(cfg *Config, service string) *Logger {
	return NewWithWriter(cfg, service, outputWriter(cfg.Output))
}

// NewWithWriter creates a logger writing to w instead of the configured output.
// An unknown level falls back to info.
func NewWithWriter(cfg *Config, service string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, FormatConsole) {
		zl = zerolog.New(consoleWriter(w, cfg.NoColor))
	} else {
		zl = zerolog.New(w)
	}

	zc := zl.Level(level).With().Timestamp()
	if cfg.Caller {
		zc = zc.Caller()
	}
	if service != "" {
		zc = zc.Str(FieldService, service)
	}
	return &Logger{zl: zc.Logger()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithContext returns a logger enriched with the trace and span IDs of the
// span active in ctx. Without a valid span it returns l itself.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return &Logger{zl: l.zl.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()).
		Logger()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger()}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]any) { write(l.zl.Debug(), msg, fields) }

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]any) { write(l.zl.Info(), msg, fields) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]any) { write(l.zl.Warn(), msg, fields) }

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]any) { write(l.zl.Error(), msg, fields) }

func write(event *zerolog.Event, msg string, fields []map[string]any) {
	if event == nil {
		return
	}
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

var defaultLogger atomic.Pointer[Logger]

// Init replaces the default logger with one built from cfg.
func Init(cfg Config, service string) {
	cfg.ApplyDefaults()
	SetDefault(New(&cfg, service))
}

// SetDefault sets the logger that Get derives component loggers from.
func SetDefault(l *Logger) { defaultLogger.Store(l) }

// Default returns the default logger, an info-level console logger on stderr
// until Init or SetDefault is called.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	cfg := Config{}
	cfg.ApplyDefaults()
	defaultLogger.CompareAndSwap(nil, New(&cfg, ""))
	return defaultLogger.Load()
}

// Info logs an info message on the default logger.
func Info(msg string, fields ...map[string]any) {
	Default().Info(msg, fields...)
}

var levelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
}

var levelColors = map[string]string{
	"debug": "\033[36m",
	"info":  "\033[32m",
	"warn":  "\033[33m",
	"error": "\033[31m",
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			lvl, _ := i.(string)
			tag, ok := levelTags[lvl]
			if !ok {
				tag = strings.ToUpper(lvl)
			}
			tag = "[" + tag + "]"
			if color, ok := levelColors[lvl]; ok && !noColor {
				return color + tag + "\033[0m"
			}
			return tag
		},
		FormatFieldName: func(i any) string { return fmt.Sprintf("%s:", i) },
	}
}

func outputWriter(output string) io.Writer {
	if strings.EqualFold(output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}
