package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Output formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is a zerolog logger bound to the service it reports for.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// New builds a logger writing to cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	return NewWithWriter(cfg, serviceName, cfg.writer())
}

// NewWithWriter builds a logger writing to w. JSON entries carry a "service"
// field; console entries are prefixed with the service name instead.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zc zerolog.Context
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		zc = zerolog.New(consoleWriter(w, serviceName, cfg.NoColor)).With()
	default:
		zc = zerolog.New(w).With()
		if serviceName != "" {
			zc = zc.Str(FieldService, serviceName)
		}
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}

	return &Logger{zl: zc.Logger().Level(level), service: serviceName}
}

// NewDefault returns an info-level console logger on stdout.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) with(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{zl: fn(l.zl.With()).Logger(), service: l.service}
}

// WithContext adds the trace and span IDs of the span active in ctx.
// Without a valid span it returns l unchanged.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.with(func(zc zerolog.Context) zerolog.Context {
		return zc.Str(FieldTraceID, sc.TraceID().String()).Str(FieldSpanID, sc.SpanID().String())
	})
}

// WithComponent tags l with the part of injex doing the logging.
func (l *Logger) WithComponent(name string) *Logger {
	return l.with(func(zc zerolog.Context) zerolog.Context {
		return zc.Str(FieldComponent, name)
	})
}

// WithFields returns a logger that adds fields to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return l.with(func(zc zerolog.Context) zerolog.Context {
		for k, v := range fields {
			zc = zc.Interface(k, v)
		}
		return zc
	})
}

// WithError returns a logger that adds err to every entry.
func (l *Logger) WithError(err error) *Logger {
	return l.with(func(zc zerolog.Context) zerolog.Context {
		return zc.Err(err)
	})
}

// ForDependency tags l with the registry and identifier an entry is about.
func (l *Logger) ForDependency(registry, identifier string) *Logger {
	return l.WithFields(Fields(FieldRegistry, registry, FieldIdentifier, identifier))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// Init applies defaults to cfg and installs a logger for serviceName as the
// global logger that unregistered components fall back to.
func Init(cfg *Config, serviceName string) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(cfg, serviceName))
}

// SetGlobalLogger replaces the global logger. A nil l restores the default.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("")
	}
	return globalLogger
}

var levelTags = map[string]string{
	"trace": "TRC",
	"debug": "DBG",
	"info":  "INF",
	"warn":  "WRN",
	"error": "ERR",
	"fatal": "FTL",
	"panic": "PNC",
}

var levelColors = map[string]string{
	"debug": "\033[36m",
	"info":  "\033[32m",
	"warn":  "\033[33m",
	"error": "\033[31m",
	"fatal": "\033[35m",
}

// consoleWriter renders "svc [WRN] message key:value" lines.
func consoleWriter(w io.Writer, serviceName string, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			tag, ok := levelTags[lvl]
			if !ok {
				tag = strings.ToUpper(lvl)
			}
			tag = "[" + tag + "]"
			if color, ok := levelColors[lvl]; ok && !noColor {
				tag = color + tag + "\033[0m"
			}
			if serviceName == "" {
				return tag
			}
			return serviceName + " " + tag
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}

func (c *Config) writer() io.Writer {
	if strings.EqualFold(c.Output, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
